package tensor

// Typed wrappers for the remaining backend operations.

// MulScalar multiplies each element of the tensor by a scalar value.
//
// Example:
//
//	x := tensor.Randn[float32](Shape{2, 3}, backend)
//	y := x.MulScalar(2.5)  // multiply all elements by 2.5
func (t *Tensor[T, B]) MulScalar(scalar T) *Tensor[T, B] {
	result := t.backend.MulScalar(t.raw, scalar)
	return New[T, B](result, t.backend)
}

// AddScalar adds a scalar value to each element of the tensor.
func (t *Tensor[T, B]) AddScalar(scalar T) *Tensor[T, B] {
	result := t.backend.AddScalar(t.raw, scalar)
	return New[T, B](result, t.backend)
}

// SubScalar subtracts a scalar value from each element of the tensor.
func (t *Tensor[T, B]) SubScalar(scalar T) *Tensor[T, B] {
	result := t.backend.SubScalar(t.raw, scalar)
	return New[T, B](result, t.backend)
}

// DivScalar divides each element of the tensor by a scalar value.
func (t *Tensor[T, B]) DivScalar(scalar T) *Tensor[T, B] {
	result := t.backend.DivScalar(t.raw, scalar)
	return New[T, B](result, t.backend)
}

// Exp computes the exponential (e^x) of each element.
func (t *Tensor[T, B]) Exp() *Tensor[T, B] {
	result := t.backend.Exp(t.raw)
	return New[T, B](result, t.backend)
}

// Sqrt computes the square root of each element.
func (t *Tensor[T, B]) Sqrt() *Tensor[T, B] {
	result := t.backend.Sqrt(t.raw)
	return New[T, B](result, t.backend)
}

// Softmax normalizes values along the given dimension into a probability
// distribution. Supports negative dims (-1 = last dimension).
//
// Example:
//
//	scores := tensor.Randn[float32](Shape{2, 4, 10, 10}, backend)
//	weights := scores.Softmax(-1)  // rows sum to 1
func (t *Tensor[T, B]) Softmax(dim int) *Tensor[T, B] {
	result := t.backend.Softmax(t.raw, dim)
	return New[T, B](result, t.backend)
}

// MaskedFill overwrites elements with value wherever mask equals zero.
// The mask is a 0/1 tensor broadcastable against t.
//
// Example:
//
//	scores := tensor.Randn[float32](Shape{1, 1, 3, 3}, backend)
//	masked := scores.MaskedFill(mask, -1e9)
func (t *Tensor[T, B]) MaskedFill(mask *Tensor[T, B], value T) *Tensor[T, B] {
	result := t.backend.MaskedFill(t.raw, mask.raw, float64(value))
	return New[T, B](result, t.backend)
}

// Sum computes the total sum of all elements, returning a scalar tensor.
//
// Example:
//
//	total := x.Sum().Item()
func (t *Tensor[T, B]) Sum() *Tensor[T, B] {
	result := t.backend.Sum(t.raw)
	return New[T, B](result, t.backend)
}
