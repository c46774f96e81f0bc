package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_KeySet_AddAll(t *testing.T) {
	testCases := []struct {
		name        string
		start       []string
		add         []string
		expectAdded int
		expect      string
	}{
		{
			name:        "empty into empty",
			start:       []string{},
			add:         []string{},
			expectAdded: 0,
			expect:      "{}",
		},
		{
			name:        "disjoint",
			start:       []string{"a"},
			add:         []string{"c", "b"},
			expectAdded: 2,
			expect:      "{a, b, c}",
		},
		{
			name:        "overlapping",
			start:       []string{"a", "b"},
			add:         []string{"b", "c"},
			expectAdded: 1,
			expect:      "{a, b, c}",
		},
		{
			name:        "subset",
			start:       []string{"a", "b"},
			add:         []string{"a"},
			expectAdded: 0,
			expect:      "{a, b}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			s := KeySetOf(tc.start)
			actual := s.AddAll(KeySetOf(tc.add))

			assert.Equal(tc.expectAdded, actual)
			assert.Equal(tc.expect, s.StringOrdered())
		})
	}
}

func Test_KeySet_Equal(t *testing.T) {
	assert := assert.New(t)

	s := KeySetOf([]int{1, 2, 3})

	assert.True(s.Equal(KeySetOf([]int{3, 2, 1})))
	assert.True(s.Equal(&s))
	assert.False(s.Equal(KeySetOf([]int{1, 2})))
	assert.False(s.Equal([]int{1, 2, 3}))
	assert.False(s.Equal((*KeySet[int])(nil)))
}

func Test_Stack(t *testing.T) {
	assert := assert.New(t)

	var s Stack[string]
	assert.True(s.Empty())

	s.Push("$")
	s.Push("S")
	s.Push("a")

	assert.Equal(3, s.Len())
	assert.Equal("a", s.Peek())
	assert.Equal("a", s.Pop())

	s.PopN(1)
	assert.Equal([]string{"$"}, s.Elements())
	assert.Panics(func() { s.PopN(2) })

	s.Pop()
	assert.Panics(func() { s.Pop() })
}

func Test_Matrix2(t *testing.T) {
	assert := assert.New(t)

	m := NewMatrix2[string, int, string]()
	m.Set("A", 1, "x")

	assert.Nil(m.Get("A", 2))
	assert.Nil(m.Get("B", 1))
	if assert.NotNil(m.Get("A", 1)) {
		assert.Equal("x", *m.Get("A", 1))
	}
	assert.Len(m.Row("A"), 1)
}

func Test_SortBy(t *testing.T) {
	assert := assert.New(t)

	input := []int{3, 1, 2}
	actual := SortBy(input, func(l, r int) bool { return l < r })

	assert.Equal([]int{1, 2, 3}, actual)
	assert.Equal([]int{3, 1, 2}, input)
}
