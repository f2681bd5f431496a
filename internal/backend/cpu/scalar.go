package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Scalar operations - element-wise operations with a scalar value.
// The scalar arrives as `any` and must match the tensor's dtype.

// MulScalar multiplies each element of the tensor by a scalar value.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := cpu.newLike(x, "mulScalar")

	switch x.DType() {
	case tensor.Float32:
		mulScalarSlice(result.AsFloat32(), x.AsFloat32(), scalar.(float32))
	case tensor.Float64:
		mulScalarSlice(result.AsFloat64(), x.AsFloat64(), scalar.(float64))
	default:
		panic(fmt.Sprintf("mulScalar: unsupported dtype %v", x.DType()))
	}

	return result
}

// AddScalar adds a scalar value to each element of the tensor.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := cpu.newLike(x, "addScalar")

	switch x.DType() {
	case tensor.Float32:
		addScalarSlice(result.AsFloat32(), x.AsFloat32(), scalar.(float32))
	case tensor.Float64:
		addScalarSlice(result.AsFloat64(), x.AsFloat64(), scalar.(float64))
	default:
		panic(fmt.Sprintf("addScalar: unsupported dtype %v", x.DType()))
	}

	return result
}

// SubScalar subtracts a scalar value from each element of the tensor.
func (cpu *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := cpu.newLike(x, "subScalar")

	switch x.DType() {
	case tensor.Float32:
		subScalarSlice(result.AsFloat32(), x.AsFloat32(), scalar.(float32))
	case tensor.Float64:
		subScalarSlice(result.AsFloat64(), x.AsFloat64(), scalar.(float64))
	default:
		panic(fmt.Sprintf("subScalar: unsupported dtype %v", x.DType()))
	}

	return result
}

// DivScalar divides each element of the tensor by a scalar value.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := cpu.newLike(x, "divScalar")

	switch x.DType() {
	case tensor.Float32:
		divScalarSlice(result.AsFloat32(), x.AsFloat32(), scalar.(float32))
	case tensor.Float64:
		divScalarSlice(result.AsFloat64(), x.AsFloat64(), scalar.(float64))
	default:
		panic(fmt.Sprintf("divScalar: unsupported dtype %v", x.DType()))
	}

	return result
}

// newLike allocates an uninitialized result tensor with x's shape and dtype.
func (cpu *CPUBackend) newLike(x *tensor.RawTensor, opName string) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", opName, err))
	}
	return result
}

func mulScalarSlice[T tensor.DType](dst, src []T, scalar T) {
	for i, v := range src {
		dst[i] = v * scalar
	}
}

func addScalarSlice[T tensor.DType](dst, src []T, scalar T) {
	for i, v := range src {
		dst[i] = v + scalar
	}
}

func subScalarSlice[T tensor.DType](dst, src []T, scalar T) {
	for i, v := range src {
		dst[i] = v - scalar
	}
}

func divScalarSlice[T tensor.DType](dst, src []T, scalar T) {
	for i, v := range src {
		dst[i] = v / scalar
	}
}
