package ops

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// MaskedFillOp represents a masked fill: output = x where mask != 0,
// fill value where mask == 0.
//
// Backward:
//
//	Filled positions are constants, so their gradient is zero. Everywhere
//	else the gradient passes through unchanged.
//
// The mask is not differentiated and is not listed as an input.
type MaskedFillOp struct {
	input  *tensor.RawTensor
	mask   *tensor.RawTensor // 0/1 keep-mask, broadcastable against input
	output *tensor.RawTensor
}

// NewMaskedFillOp creates a new MaskedFillOp.
func NewMaskedFillOp(input, mask, output *tensor.RawTensor) *MaskedFillOp {
	return &MaskedFillOp{
		input:  input,
		mask:   mask,
		output: output,
	}
}

// Backward gates the output gradient by the mask: zero where the mask is
// zero, pass-through elsewhere.
func (op *MaskedFillOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.input.Shape()

	inputGrad, err := tensor.NewRaw(shape, op.input.DType(), op.input.Device())
	if err != nil {
		panic(err)
	}

	maskStrides := broadcastStridesFor(op.mask.Shape(), shape)
	outStrides := shape.ComputeStrides()

	switch op.input.DType() {
	case tensor.Float32:
		maskedGradKernel(inputGrad.AsFloat32(), outputGrad.AsFloat32(), op.mask.AsFloat32(), outStrides, maskStrides)
	case tensor.Float64:
		maskedGradKernel(inputGrad.AsFloat64(), outputGrad.AsFloat64(), op.mask.AsFloat64(), outStrides, maskStrides)
	default:
		panic(fmt.Sprintf("MaskedFillOp: unsupported dtype %s", op.input.DType()))
	}

	return []*tensor.RawTensor{inputGrad}
}

// Inputs returns the input tensors. The mask is excluded because no
// gradient flows to it.
func (op *MaskedFillOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *MaskedFillOp) Output() *tensor.RawTensor {
	return op.output
}

func maskedGradKernel[T tensor.DType](dst, grad, mask []T, outStrides, maskStrides []int) {
	for i := range dst {
		// Map the flat output index to the broadcast mask index.
		maskIdx := 0
		remaining := i
		for d := 0; d < len(outStrides); d++ {
			coord := remaining / outStrides[d]
			remaining %= outStrides[d]
			maskIdx += coord * maskStrides[d]
		}
		if mask[maskIdx] == 0 {
			dst[i] = 0
		} else {
			dst[i] = grad[i]
		}
	}
}

// broadcastStridesFor computes strides for iterating a smaller tensor as if
// broadcast to targetShape: broadcast dimensions get stride 0.
func broadcastStridesFor(shape, targetShape tensor.Shape) []int {
	strides := shape.ComputeStrides()
	result := make([]int, len(targetShape))

	offset := len(targetShape) - len(shape)
	for i := range targetShape {
		srcDim := i - offset
		if srcDim < 0 || shape[srcDim] == 1 {
			result[i] = 0
		} else {
			result[i] = strides[srcDim]
		}
	}
	return result
}
