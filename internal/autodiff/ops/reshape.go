package ops

import "github.com/loom-ml/loom/internal/tensor"

// ReshapeOp represents a reshape operation.
//
// Forward:
//
//	output = reshape(input, newShape)
//
// Backward:
//
//	∂L/∂input = reshape(∂L/∂output, input.Shape())
//
// Reshape only rearranges metadata, so the gradient is the output gradient
// reshaped back to the input's shape.
type ReshapeOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReshapeOp creates a new ReshapeOp.
func NewReshapeOp(input, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{
		input:  input,
		output: output,
	}
}

// Backward reshapes the output gradient back to the input's shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inputGrad := backend.Reshape(outputGrad, op.input.Shape())
	return []*tensor.RawTensor{inputGrad}
}

// Inputs returns the input tensors.
func (op *ReshapeOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *ReshapeOp) Output() *tensor.RawTensor {
	return op.output
}
