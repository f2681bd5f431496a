package ops

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target shape.
// This is necessary when broadcasting was used in the forward pass.
//
// Example:
//
//	Forward: a[3,1] + b[3,4] -> c[3,4]  (a was broadcast along dim 1)
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// If shapes already match, clone to avoid aliasing issues
	// (prevents inplace operations from modifying shared gradients)
	if gradShape.Equal(targetShape) {
		return grad.Clone()
	}

	// Scalar target: sum everything
	if len(targetShape) == 0 {
		return sumAll(grad)
	}

	// NumPy broadcasting aligns shapes from the right.
	// First sum away leading dimensions the target never had.
	gradDims := len(gradShape)
	targetDims := len(targetShape)

	result := grad
	if targetDims < gradDims {
		for i := 0; i < gradDims-targetDims; i++ {
			result = sumAlongDimension(result, 0)
		}
		gradShape = result.Shape()
	}

	// Then sum along dimensions where the target is 1
	for i := 0; i < targetDims; i++ {
		if targetShape[i] == 1 && gradShape[i] > 1 {
			result = sumAlongDimension(result, i)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}

	return result
}

// sumAll sums all elements of a tensor to a scalar.
func sumAll(t *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{}, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("sumAll: failed to create result: %v", err))
	}

	switch t.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = sumAllSlice(t.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = sumAllSlice(t.AsFloat64())
	default:
		panic(fmt.Sprintf("sumAll: unsupported dtype %s", t.DType()))
	}

	return result
}

func sumAllSlice[T tensor.DType](data []T) T {
	var sum T
	for _, v := range data {
		sum += v
	}
	return sum
}

// sumAlongDimension sums a tensor along the specified dimension.
// The summed dimension is kept with size 1.
func sumAlongDimension(t *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := t.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumAlongDimension: invalid dimension %d for shape %v", dim, shape))
	}

	outShape := shape.Clone()
	outShape[dim] = 1

	result, err := tensor.NewRaw(outShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("sumAlongDimension: failed to create result: %v", err))
	}

	switch t.DType() {
	case tensor.Float32:
		sumAlongDimensionKernel(result.AsFloat32(), t.AsFloat32(), shape, outShape, dim)
	case tensor.Float64:
		sumAlongDimensionKernel(result.AsFloat64(), t.AsFloat64(), shape, outShape, dim)
	default:
		panic(fmt.Sprintf("sumAlongDimension: unsupported dtype %s", t.DType()))
	}

	return result
}

func sumAlongDimensionKernel[T tensor.DType](result, data []T, shape, outShape tensor.Shape, dim int) {
	for i := range result {
		result[i] = 0
	}

	strides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()

	for i := range data {
		// Map source index to the reduced index by zeroing the coordinate
		// along dim.
		temp := i
		reducedIdx := 0
		for d := 0; d < len(shape); d++ {
			coord := temp / strides[d]
			temp %= strides[d]
			if d != dim {
				reducedIdx += coord * outStrides[d]
			}
		}
		result[reducedIdx] += data[i]
	}
}

// negateGradient returns -grad.
func negateGradient(grad *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	switch grad.DType() {
	case tensor.Float32:
		return backend.MulScalar(grad, float32(-1))
	case tensor.Float64:
		return backend.MulScalar(grad, float64(-1))
	default:
		panic(fmt.Sprintf("negateGradient: unsupported dtype %s", grad.DType()))
	}
}

// swapLastTwoAxes builds the transpose permutation that exchanges the final
// two dimensions and leaves batch dimensions in place.
func swapLastTwoAxes(ndim int) []int {
	axes := make([]int, ndim)
	for i := 0; i < ndim-2; i++ {
		axes[i] = i
	}
	axes[ndim-2] = ndim - 1
	axes[ndim-1] = ndim - 2
	return axes
}
