package util

// Matrix2 is a sparse two-dimensional table addressed by an X key and then a Y
// key. The zero value is not usable; create one with NewMatrix2.
type Matrix2[X, Y comparable, E any] map[X]map[Y]E

func NewMatrix2[X, Y comparable, E any]() Matrix2[X, Y, E] {
	return Matrix2[X, Y, E]{}
}

// Set assigns v to the cell at (x, y).
func (m Matrix2[X, Y, E]) Set(x X, y Y, v E) {
	row, ok := m[x]
	if !ok {
		row = map[Y]E{}
		m[x] = row
	}
	row[y] = v
}

// Get returns a pointer to the cell at (x, y), or nil if no value has been set
// there. The pointer refers to a copy; use Set to write.
func (m Matrix2[X, Y, E]) Get(x X, y Y) *E {
	row, ok := m[x]
	if !ok {
		return nil
	}
	v, ok := row[y]
	if !ok {
		return nil
	}
	return &v
}

// Row returns the cells set in row x, keyed by Y.
func (m Matrix2[X, Y, E]) Row(x X) map[Y]E {
	return m[x]
}
