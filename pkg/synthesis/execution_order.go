package synthesis

// ExecutionOrder is the direction in which a statement list is synthesized.
type ExecutionOrder int

const (
	Sequential ExecutionOrder = iota
	InvertedAndReversed
)

func (o ExecutionOrder) String() string {
	if o == InvertedAndReversed {
		return "InvertedAndReversed"
	}
	return "Sequential"
}

// Combine composes two orders: two inversions cancel.
func (o ExecutionOrder) Combine(other ExecutionOrder) ExecutionOrder {
	if o == other {
		return Sequential
	}
	return InvertedAndReversed
}

// ExecutionOrderStack tracks the aggregate order produced by nested calls
// and uncalls. The history starts with a Sequential baseline entry which
// can itself be removed, after which the aggregate is undefined.
type ExecutionOrderStack struct {
	aggregates []ExecutionOrder
}

func NewExecutionOrderStack() *ExecutionOrderStack {
	return &ExecutionOrderStack{aggregates: []ExecutionOrder{Sequential}}
}

// AddToAggregate pushes order and returns the new aggregate.
func (s *ExecutionOrderStack) AddToAggregate(order ExecutionOrder) ExecutionOrder {
	current := Sequential
	if len(s.aggregates) > 0 {
		current = s.aggregates[len(s.aggregates)-1]
	}
	next := current.Combine(order)
	s.aggregates = append(s.aggregates, next)
	return next
}

// RemoveLast undoes the most recent push; false when the history is empty.
func (s *ExecutionOrderStack) RemoveLast() bool {
	if len(s.aggregates) == 0 {
		return false
	}
	s.aggregates = s.aggregates[:len(s.aggregates)-1]
	return true
}

// CurrentAggregate returns the aggregate order, or false once the
// baseline has been removed.
func (s *ExecutionOrderStack) CurrentAggregate() (ExecutionOrder, bool) {
	if len(s.aggregates) == 0 {
		return Sequential, false
	}
	return s.aggregates[len(s.aggregates)-1], true
}
