package tensor

import "fmt"

// Tensor pairs a RawTensor with the backend that computes on it. The
// element type T is checked at compile time, and the backend type B rides
// along so the same model code runs over a plain or gradient-recording
// backend.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
//	result := t.Add(t)
type Tensor[T DType, B Backend] struct {
	raw     *RawTensor
	backend B
	grad    *Tensor[T, B] // set after a backward pass
}

// New wraps an existing RawTensor.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return &Tensor[T, B]{
		raw:     raw,
		backend: b,
	}
}

// FromSlice copies a Go slice into a new tensor of the given shape.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		return nil, err
	}

	t := New[T, B](raw, b)
	copy(t.Data(), data)

	return t, nil
}

// Shape returns the tensor's dimensions.
func (t *Tensor[T, B]) Shape() Shape {
	return t.raw.Shape()
}

// DType returns the runtime element type tag.
func (t *Tensor[T, B]) DType() DataType {
	return t.raw.DType()
}

// Device returns where the tensor's buffer lives.
func (t *Tensor[T, B]) Device() Device {
	return t.raw.Device()
}

// NumElements returns the total element count.
func (t *Tensor[T, B]) NumElements() int {
	return t.raw.NumElements()
}

// Raw exposes the underlying RawTensor for backend and autodiff code.
// Gradient maps returned by Backward are keyed by these pointers.
func (t *Tensor[T, B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the backend this tensor computes on.
func (t *Tensor[T, B]) Backend() B {
	return t.backend
}

// Grad returns the gradient attached by SetGrad, or nil.
func (t *Tensor[T, B]) Grad() *Tensor[T, B] {
	return t.grad
}

// SetGrad attaches a gradient tensor.
func (t *Tensor[T, B]) SetGrad(grad *Tensor[T, B]) {
	t.grad = grad
}

// Data returns the typed view of the tensor's memory. Writes through the
// slice modify the tensor (and anything sharing its buffer).
func (t *Tensor[T, B]) Data() []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(t.raw.AsFloat32()).([]T)
	case float64:
		return any(t.raw.AsFloat64()).([]T)
	default:
		panic("unsupported type")
	}
}

// Item extracts the value of a rank-0 tensor, e.g. a Sum result.
// Panics for any other shape.
func (t *Tensor[T, B]) Item() T {
	if len(t.Shape()) != 0 || t.NumElements() != 1 {
		panic(fmt.Sprintf("Item() only works for scalar tensors, got shape %v", t.Shape()))
	}
	return t.Data()[0]
}

// At reads one element, taking one index per dimension. Panics on rank or
// bounds violations.
func (t *Tensor[T, B]) At(indices ...int) T {
	return t.Data()[t.flatIndex(indices)]
}

// Set writes one element, taking one index per dimension. Panics on rank
// or bounds violations.
func (t *Tensor[T, B]) Set(value T, indices ...int) {
	t.Data()[t.flatIndex(indices)] = value
}

func (t *Tensor[T, B]) flatIndex(indices []int) int {
	if len(indices) != len(t.Shape()) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.Shape()), len(indices)))
	}

	offset := 0
	strides := t.raw.Strides()
	for i, idx := range indices {
		if idx < 0 || idx >= t.Shape()[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.Shape()[i]))
		}
		offset += idx * strides[i]
	}
	return offset
}

// String returns a human-readable representation of the tensor.
func (t *Tensor[T, B]) String() string {
	return fmt.Sprintf("Tensor[%s]%v on %s", t.raw.DType(), t.raw.Shape(), t.raw.Device())
}

// Clone returns a copy backed by fresh storage, safe to mutate without
// affecting the original. Gradient state is not carried over. This differs
// from RawTensor.Clone, which shares the buffer for the backends' benefit.
func (t *Tensor[T, B]) Clone() *Tensor[T, B] {
	raw, err := NewRaw(t.Shape(), t.DType(), t.Device())
	if err != nil {
		panic(err)
	}
	clone := New[T, B](raw, t.backend)
	copy(clone.Data(), t.Data())
	return clone
}
