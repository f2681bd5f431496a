// Package tensor provides the dense tensor types the rest of the library
// builds on: Shape, the untyped RawTensor, the typed Tensor[T, B] and the
// Backend interface computation is delegated to.
package tensor

// DType constrains the element types tensors can hold. Attention math is
// floating point, so only float32 and float64 qualify.
type DType interface {
	~float32 | ~float64
}

// DataType is the runtime tag matching the compile-time DType parameter.
// RawTensor carries it so backends can dispatch kernels without generics.
type DataType int

// The supported element types.
const (
	Float32 DataType = iota
	Float64
)

// Size returns the width of one element in bytes.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns the Go name of the element type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// inferDataType maps the type parameter T to its runtime tag.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic("unsupported type")
	}
}
