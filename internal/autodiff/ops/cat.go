package ops

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// CatOp represents a concatenation operation along a dimension.
//
// Forward: output = Cat([input1, input2, ...], dim)
//
// Backward:
//
//	Split the output gradient along dim at the input boundaries and hand
//	each input the slice corresponding to its contribution.
type CatOp struct {
	inputs []*tensor.RawTensor // Input tensors that were concatenated
	dim    int                 // Dimension along which concatenation happened
	sizes  []int               // Size of each input along the concat dimension
	output *tensor.RawTensor   // Concatenated output tensor
}

// NewCatOp creates a new cat operation. dim must already be normalized.
func NewCatOp(inputs []*tensor.RawTensor, dim int, sizes []int, output *tensor.RawTensor) *CatOp {
	return &CatOp{
		inputs: inputs,
		dim:    dim,
		sizes:  sizes,
		output: output,
	}
}

// Inputs returns the input tensors.
func (op *CatOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor.
func (op *CatOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward slices the output gradient back into per-input gradients.
func (op *CatOp) Backward(gradOutput *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grads := make([]*tensor.RawTensor, len(op.inputs))

	gradShape := gradOutput.Shape()
	gradStrides := gradShape.ComputeStrides()

	offset := 0
	for i, size := range op.sizes {
		gradInputShape := gradShape.Clone()
		gradInputShape[op.dim] = size

		gradInput, err := tensor.NewRaw(gradInputShape, gradOutput.DType(), backend.Device())
		if err != nil {
			panic(err)
		}

		copySliceAlongDim(gradInput, gradOutput, op.dim, offset, gradStrides)

		grads[i] = gradInput
		offset += size
	}

	return grads
}

// copySliceAlongDim copies the slice of src starting at offset along dim
// into dst, which must have src's shape with dim shrunk to dst's size.
func copySliceAlongDim(dst, src *tensor.RawTensor, dim, offset int, srcStrides []int) {
	switch src.DType() {
	case tensor.Float32:
		copySliceKernel(dst.AsFloat32(), src.AsFloat32(), dim, offset, dst.Shape(), srcStrides)
	case tensor.Float64:
		copySliceKernel(dst.AsFloat64(), src.AsFloat64(), dim, offset, dst.Shape(), srcStrides)
	default:
		panic(fmt.Sprintf("copySliceAlongDim: unsupported dtype %s", src.DType()))
	}
}

func copySliceKernel[T tensor.DType](dst, src []T, dim, offset int, dstShape tensor.Shape, srcStrides []int) {
	dstStrides := dstShape.ComputeStrides()

	for i := range dst {
		temp := i
		srcIdx := 0
		for d := 0; d < len(dstShape); d++ {
			coord := temp / dstStrides[d]
			temp %= dstStrides[d]

			if d == dim {
				coord += offset
			}
			srcIdx += coord * srcStrides[d]
		}
		dst[i] = src[srcIdx]
	}
}
