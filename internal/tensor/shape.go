package tensor

import "fmt"

// Shape holds a tensor's dimensions in row-major order. An empty Shape is
// a scalar (rank 0, one element), which is what reductions like Sum return.
type Shape []int

// NumElements returns the product of all dimensions. A scalar has one
// element.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate rejects shapes with zero or negative dimensions.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal reports whether both shapes have the same rank and dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides returns the row-major strides: stride[i] is the flat
// distance between consecutive indices along dimension i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// dimFromRight returns the size of the i-th dimension counted from the
// right, treating missing leading dimensions as 1.
func (s Shape) dimFromRight(i int) int {
	idx := len(s) - 1 - i
	if idx < 0 {
		return 1
	}
	return s[idx]
}

// BroadcastShapes resolves the common shape of two operands under NumPy
// rules: dimensions align from the right, and each pair must either match
// or contain a 1 (which stretches to the other size). The bool result is
// true when the operands actually differ, so callers can skip the strided
// path for same-shape inputs.
//
// The attention pipeline leans on this twice: the bias row [1, out] added
// to [batch, out], and keep-masks like [1, 1, seq, seq] applied to scores
// of shape [batch, heads, seq, seq].
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	n := max(len(a), len(b))
	out := make(Shape, n)
	needsBroadcast := false

	for i := 0; i < n; i++ {
		da := a.dimFromRight(i)
		db := b.dimFromRight(i)

		switch {
		case da == db:
			out[n-1-i] = da
		case da == 1:
			out[n-1-i] = db
			needsBroadcast = true
		case db == 1:
			out[n-1-i] = da
			needsBroadcast = true
		default:
			return nil, false, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v (dimension %d: %d vs %d)",
				a, b, n-1-i, da, db)
		}
	}

	return out, needsBroadcast, nil
}
