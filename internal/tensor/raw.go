package tensor

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Device identifies where a tensor's buffer lives.
type Device int

// CPU is the only device this library computes on. The enum keeps
// backends honest about reporting placement.
const (
	CPU Device = iota
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// buffer is the shared storage behind RawTensor. The reference count
// drives the copy-on-write protocol: a count of 1 means the holder may
// mutate the bytes in place, anything higher means another view (a clone,
// or an input pinned on the gradient tape) can still observe them.
type buffer struct {
	bytes []byte
	refs  atomic.Int32
}

func newBuffer(size int) *buffer {
	b := &buffer{bytes: make([]byte, size)}
	b.refs.Store(1)
	return b
}

func (b *buffer) retain() {
	b.refs.Add(1)
}

func (b *buffer) release() {
	if b.refs.Add(-1) == 0 {
		b.bytes = nil
	}
}

// RawTensor is the untyped dense tensor: a shape, a dtype, row-major
// strides and a reference-counted byte buffer. Backends and the typed
// Tensor[T, B] wrapper both operate on RawTensor.
type RawTensor struct {
	buf    *buffer
	shape  Shape
	stride []int
	dtype  DataType
	device Device
}

// NewRaw allocates a zero-filled tensor with the given shape and dtype.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		buf:    newBuffer(shape.NumElements() * dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// Shape returns the tensor's dimensions.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the row-major memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the element type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns where the buffer lives.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total element count.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// Data returns the raw byte buffer. Writes go straight through to the
// shared storage.
func (r *RawTensor) Data() []byte {
	return r.buf.bytes
}

// ByteSize returns the buffer size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// AsFloat32 views the buffer as []float32. Writes go straight through to
// the shared storage. Panics on dtype mismatch.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	//nolint:gosec // zero-copy view, length bounded by NumElements
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.buf.bytes[0])), r.NumElements())
}

// AsFloat64 views the buffer as []float64. Writes go straight through to
// the shared storage. Panics on dtype mismatch.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	//nolint:gosec // zero-copy view, length bounded by NumElements
	return unsafe.Slice((*float64)(unsafe.Pointer(&r.buf.bytes[0])), r.NumElements())
}

// Clone returns a new RawTensor sharing this tensor's buffer. The share
// bumps the reference count, so neither side qualifies for the backends'
// inplace fast path afterwards. Nothing copies the bytes eagerly; callers
// that need an isolated copy go through the typed Tensor.Clone.
func (r *RawTensor) Clone() *RawTensor {
	r.buf.retain()
	return &RawTensor{
		buf:    r.buf,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
	}
}

// IsUnique reports whether this tensor holds the only reference to its
// buffer. Backends consult this before mutating an operand in place.
func (r *RawTensor) IsUnique() bool {
	return r.buf.refs.Load() == 1
}

// ForceNonUnique pins the buffer against inplace mutation by holding an
// extra reference. The returned function drops the pin and must be called
// (use defer). The autodiff backend pins every recorded input this way so
// the tape always sees the original values during the backward pass.
func (r *RawTensor) ForceNonUnique() func() {
	r.buf.retain()
	return func() {
		r.buf.release()
	}
}
