package util

// Stack is a LIFO container. The zero value is an empty stack ready for use.
// Of holds the elements with the top of the stack at the end.
type Stack[E any] struct {
	Of []E
}

// Push puts v on top of the stack.
func (s *Stack[E]) Push(v E) {
	s.Of = append(s.Of, v)
}

// Pop removes the top element and returns it. It panics if the stack is empty.
func (s *Stack[E]) Pop() E {
	if len(s.Of) == 0 {
		panic("pop of empty stack")
	}
	v := s.Of[len(s.Of)-1]
	s.Of = s.Of[:len(s.Of)-1]
	return v
}

// PopN removes the top n elements. It panics if fewer than n are present.
func (s *Stack[E]) PopN(n int) {
	if n > len(s.Of) {
		panic("pop past bottom of stack")
	}
	s.Of = s.Of[:len(s.Of)-n]
}

// Peek returns the top element without removing it. It panics if the stack is
// empty.
func (s Stack[E]) Peek() E {
	if len(s.Of) == 0 {
		panic("peek of empty stack")
	}
	return s.Of[len(s.Of)-1]
}

func (s Stack[E]) Len() int {
	return len(s.Of)
}

func (s Stack[E]) Empty() bool {
	return len(s.Of) == 0
}

// Elements returns a copy of the stack contents, bottom first.
func (s Stack[E]) Elements() []E {
	cp := make([]E, len(s.Of))
	copy(cp, s.Of)
	return cp
}
