package ops

import "github.com/loom-ml/loom/internal/tensor"

// ExpOp represents the element-wise exponential: output = exp(x).
//
// Backward: d(exp(x))/dx = exp(x), so grad_x = outputGrad * output.
// The cached forward output avoids re-exponentiating.
type ExpOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewExpOp creates a new ExpOp.
func NewExpOp(input, output *tensor.RawTensor) *ExpOp {
	return &ExpOp{input: input, output: output}
}

// Backward computes grad_x = outputGrad * exp(x) using the cached output.
func (op *ExpOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, op.output)}
}

// Inputs returns the input tensors.
func (op *ExpOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *ExpOp) Output() *tensor.RawTensor {
	return op.output
}
