package ops

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// SoftmaxOp represents the softmax operation along a dimension.
//
// Forward (for each row along dim):
//
//	softmax(x)_i = exp(x_i - max(x)) / Σ_j exp(x_j - max(x))
//
// Backward:
//
//	The Jacobian of softmax is:
//	∂softmax_i/∂x_j = softmax_i * (δ_ij - softmax_j)
//
//	Chain rule gives:
//	∂L/∂x_j = softmax_j * (∂L/∂softmax_j - Σ_i (∂L/∂softmax_i * softmax_i))
//
// The cached forward output supplies the softmax values, so the backward
// pass never re-exponentiates. Works for any rank, e.g. 4D attention
// weights [batch, heads, seq_q, seq_k] with dim = -1.
type SoftmaxOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor // Cached softmax output for backward pass
	dim    int               // Normalized dimension softmax was applied along
}

// NewSoftmaxOp creates a new softmax operation. dim must already be
// normalized to [0, ndim).
func NewSoftmaxOp(input, output *tensor.RawTensor, dim int) *SoftmaxOp {
	return &SoftmaxOp{
		input:  input,
		output: output,
		dim:    dim,
	}
}

// Inputs returns the input tensors.
func (op *SoftmaxOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *SoftmaxOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes the gradient with respect to input.
//
// For each row r along dim:
//
//	∂L/∂x[r,j] = softmax[r,j] * (∂L/∂softmax[r,j] - dot(∂L/∂softmax[r,:], softmax[r,:]))
func (op *SoftmaxOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.input.Shape()

	inputGrad, err := tensor.NewRaw(shape, op.input.DType(), op.input.Device())
	if err != nil {
		panic(err)
	}

	switch op.input.DType() {
	case tensor.Float32:
		softmaxBackwardKernel(inputGrad.AsFloat32(), outputGrad.AsFloat32(), op.output.AsFloat32(), shape, op.dim)
	case tensor.Float64:
		softmaxBackwardKernel(inputGrad.AsFloat64(), outputGrad.AsFloat64(), op.output.AsFloat64(), shape, op.dim)
	default:
		panic(fmt.Sprintf("SoftmaxOp: unsupported dtype %s", op.input.DType()))
	}

	return []*tensor.RawTensor{inputGrad}
}

func softmaxBackwardKernel[T tensor.DType](inGrad, outGrad, softmax []T, shape tensor.Shape, dim int) {
	strides := shape.ComputeStrides()
	dimSize := shape[dim]
	dimStride := strides[dim]

	numRows := 1
	for i := range shape {
		if i != dim {
			numRows *= shape[i]
		}
	}

	for row := 0; row < numRows; row++ {
		baseIdx := 0
		remaining := row
		for i := 0; i < len(shape); i++ {
			if i == dim {
				continue
			}
			coord := remaining % shape[i]
			remaining /= shape[i]
			baseIdx += coord * strides[i]
		}

		// dot = Σ_i (grad_output[i] * softmax[i]) over the row
		var dot T
		for i := 0; i < dimSize; i++ {
			idx := baseIdx + i*dimStride
			dot += outGrad[idx] * softmax[idx]
		}

		for i := 0; i < dimSize; i++ {
			idx := baseIdx + i*dimStride
			inGrad[idx] = softmax[idx] * (outGrad[idx] - dot)
		}
	}
}
