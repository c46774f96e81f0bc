package util

import (
	"fmt"
	"sort"
	"strings"
)

// KeySet is a set of comparable elements backed by a map. The zero value is
// a nil map and must not be added to; create one with NewKeySet or
// KeySetOf.
type KeySet[E comparable] map[E]bool

func NewKeySet[E comparable](of ...map[E]bool) KeySet[E] {
	s := KeySet[E]{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

func KeySetOf[E comparable](sl []E) KeySet[E] {
	if sl == nil {
		return nil
	}

	s := NewKeySet[E]()

	for i := range sl {
		s.Add(sl[i])
	}

	return s
}

func (s KeySet[E]) Copy() KeySet[E] {
	newS := NewKeySet[E]()

	for k := range s {
		newS[k] = true
	}

	return newS
}

func (s KeySet[E]) Empty() bool {
	return s.Len() == 0
}

func (s KeySet[E]) Has(value E) bool {
	_, has := s[value]
	return has
}

// Add adds value to the set and returns whether it was not already present.
func (s KeySet[E]) Add(value E) bool {
	if s.Has(value) {
		return false
	}
	s[value] = true
	return true
}

func (s KeySet[E]) Len() int {
	return len(s)
}

// AddAll adds every element of o to s and returns how many of them were new.
func (s KeySet[E]) AddAll(o KeySet[E]) int {
	var added int
	for element := range o {
		if s.Add(element) {
			added++
		}
	}
	return added
}

// StringOrdered shows the contents of the set. Items are guaranteed to be
// alphabetized.
func (s KeySet[E]) StringOrdered() string {
	convs := []string{}

	for k := range s {
		convs = append(convs, fmt.Sprintf("%v", k))
	}

	sort.Strings(convs)

	var sb strings.Builder

	sb.WriteRune('{')
	for i := range convs {
		sb.WriteString(convs[i])
		if i+1 < len(convs) {
			sb.WriteRune(',')
			sb.WriteRune(' ')
		}
	}
	sb.WriteRune('}')
	return sb.String()
}

// String shows the contents of the set in alphabetical order of their
// formatted values.
func (s KeySet[E]) String() string {
	return s.StringOrdered()
}

// Equal returns whether two sets have the same items. Anything other than a
// KeySet[E] or a non-nil *KeySet[E] is never equal.
func (s KeySet[E]) Equal(o any) bool {
	other, ok := o.(KeySet[E])
	if !ok {
		otherPtr, ok := o.(*KeySet[E])
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if s.Len() != other.Len() {
		return false
	}

	for k := range s {
		if !other.Has(k) {
			return false
		}
	}

	return true
}

// Elements returns the elements of s as a slice. No particular order is
// guaranteed nor should it be relied on; use Sorted for a stable order.
func (s KeySet[E]) Elements() []E {
	if s == nil {
		return nil
	}

	sl := make([]E, 0, len(s))

	for item := range s {
		sl = append(sl, item)
	}

	return sl
}

// Sorted returns the elements of s ordered by less.
func (s KeySet[E]) Sorted(less func(l, r E) bool) []E {
	return SortBy(s.Elements(), less)
}
