package synthesis

import "gosyrec/pkg/circuit"

// QubitOffsetScope maps variable names to the first qubit allocated for
// them. Scopes nest: lookups fall through to enclosing scopes, writes only
// touch the innermost one.
type QubitOffsetScope struct {
	scopes []map[string]circuit.Qubit
}

// Open pushes an empty scope.
func (s *QubitOffsetScope) Open() {
	s.scopes = append(s.scopes, make(map[string]circuit.Qubit))
}

// Close pops the innermost scope. It returns false when no scope is open.
func (s *QubitOffsetScope) Close() bool {
	if len(s.scopes) == 0 {
		return false
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
	return true
}

// RegisterOrUpdate binds id to q in the innermost scope, replacing an
// existing binding there. Enclosing scopes are never modified.
func (s *QubitOffsetScope) RegisterOrUpdate(id string, q circuit.Qubit) bool {
	if id == "" || len(s.scopes) == 0 {
		return false
	}
	s.scopes[len(s.scopes)-1][id] = q
	return true
}

// Lookup returns the innermost binding of id.
func (s *QubitOffsetScope) Lookup(id string) (circuit.Qubit, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if q, ok := s.scopes[i][id]; ok {
			return q, true
		}
	}
	return 0, false
}

// Depth returns the number of open scopes.
func (s *QubitOffsetScope) Depth() int { return len(s.scopes) }
