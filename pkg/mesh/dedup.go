package mesh

import "fmt"

// Index is an append-only table of unique values. Values are assigned
// indices in first-seen order.
//
// Lookup uses Go map equality, which for floats is value equality:
// +0 and -0 match, NaN never matches anything (each NaN gets its own slot).
type Index[K comparable] struct {
	items  []K
	lookup map[K]uint32
}

// NewIndex creates an empty table with room for n values.
func NewIndex[K comparable](n int) *Index[K] {
	return &Index[K]{
		items:  make([]K, 0, n),
		lookup: make(map[K]uint32, n),
	}
}

// Add returns the index of k, appending it if it has not been seen.
func (x *Index[K]) Add(k K) uint32 {
	if i, ok := x.lookup[k]; ok {
		return i
	}
	i := uint32(len(x.items))
	x.items = append(x.items, k)
	x.lookup[k] = i
	return i
}

// Items returns the unique values in first-seen order.
func (x *Index[K]) Items() []K {
	return x.items
}

// Len returns the number of unique values.
func (x *Index[K]) Len() int {
	return len(x.items)
}

// Deduplicate collapses a flat per-corner stream (three corners per
// triangle, in triangle order) into a unique vertex table and an index
// buffer referencing it.
func Deduplicate(corners []Vertex) ([]Vertex, []Triangle, error) {
	if len(corners)%3 != 0 {
		return nil, nil, fmt.Errorf("%w: %d corners", ErrIncompleteTriangle, len(corners))
	}

	table := NewIndex[Vertex](len(corners))
	tris := make([]Triangle, len(corners)/3)
	for i, v := range corners {
		tris[i/3][i%3] = table.Add(v)
	}
	return table.Items(), tris, nil
}

// Expand emits table[idx] for every corner of every triangle.
func Expand(table []Vertex, tris []Triangle) ([]Vertex, error) {
	if err := CheckBounds(tris, len(table)); err != nil {
		return nil, err
	}

	corners := make([]Vertex, 0, len(tris)*3)
	for _, tri := range tris {
		corners = append(corners, table[tri[0]], table[tri[1]], table[tri[2]])
	}
	return corners, nil
}

// DeduplicateFrames deduplicates several animation frames that share one
// topology. Frame 0 defines the index buffer; every other frame must
// produce the same index buffer, otherwise ErrFrameMismatch is returned.
func DeduplicateFrames(frames [][]Vertex) ([][]Vertex, []Triangle, error) {
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("%w: no frames", ErrFrameMismatch)
	}

	tables := make([][]Vertex, len(frames))
	var tris []Triangle
	for f, corners := range frames {
		if f > 0 && len(corners) != len(frames[0]) {
			return nil, nil, fmt.Errorf("%w: frame %d has %d corners, frame 0 has %d",
				ErrFrameMismatch, f, len(corners), len(frames[0]))
		}

		table, frameTris, err := Deduplicate(corners)
		if err != nil {
			return nil, nil, fmt.Errorf("frame %d: %w", f, err)
		}

		if f == 0 {
			tris = frameTris
		} else {
			if len(table) != len(tables[0]) {
				return nil, nil, fmt.Errorf("%w: frame %d has %d unique vertices, frame 0 has %d",
					ErrFrameMismatch, f, len(table), len(tables[0]))
			}
			for i := range frameTris {
				if frameTris[i] != tris[i] {
					return nil, nil, fmt.Errorf("%w: frame %d triangle %d differs", ErrFrameMismatch, f, i)
				}
			}
		}
		tables[f] = table
	}

	return tables, tris, nil
}
