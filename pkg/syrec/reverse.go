package syrec

// Reverse returns the statement that undoes s. The result shares
// expressions and accesses with s; only the statement nodes are new.
//
//	a += b        ->  a -= b
//	++= a         ->  --= a
//	call m(x)     ->  uncall m(x)
//	if c ... fi d ->  if d ... fi c (branches reversed)
func Reverse(s Statement) Statement {
	switch s := s.(type) {
	case *AssignStmt:
		op := s.Op
		switch op {
		case ADD_ASSIGN:
			op = SUB_ASSIGN
		case SUB_ASSIGN:
			op = ADD_ASSIGN
		}
		return &AssignStmt{Op: op, Lhs: s.Lhs, Rhs: s.Rhs, SourceLine: s.SourceLine}
	case *UnaryStmt:
		op := s.Op
		switch op {
		case INC_ASSIGN:
			op = DEC_ASSIGN
		case DEC_ASSIGN:
			op = INC_ASSIGN
		}
		return &UnaryStmt{Op: op, Target: s.Target, SourceLine: s.SourceLine}
	case *SwapStmt:
		return s
	case *IfStmt:
		return &IfStmt{
			Condition:   s.FiCondition,
			Then:        ReverseStatements(s.Then),
			Else:        ReverseStatements(s.Else),
			FiCondition: s.Condition,
			SourceLine:  s.SourceLine,
		}
	case *ForStmt:
		return &ForStmt{
			LoopVariable: s.LoopVariable,
			From:         s.From,
			To:           s.To,
			Step:         s.Step,
			NegativeStep: s.NegativeStep,
			Body:         ReverseStatements(s.Body),
			Reversed:     !s.Reversed,
			SourceLine:   s.SourceLine,
		}
	case *CallStmt:
		return &UncallStmt{Target: s.Target, TargetName: s.TargetName, Arguments: s.Arguments, SourceLine: s.SourceLine}
	case *UncallStmt:
		return &CallStmt{Target: s.Target, TargetName: s.TargetName, Arguments: s.Arguments, SourceLine: s.SourceLine}
	case *SkipStmt:
		return s
	}
	return s
}

// ReverseStatements inverts a statement list: the order is reversed and
// every statement is replaced by its inverse.
func ReverseStatements(stmts []Statement) []Statement {
	out := make([]Statement, len(stmts))
	for i, s := range stmts {
		out[len(stmts)-1-i] = Reverse(s)
	}
	return out
}
