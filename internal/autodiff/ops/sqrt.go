package ops

import "github.com/loom-ml/loom/internal/tensor"

// SqrtOp represents the element-wise square root: output = sqrt(x).
//
// Backward: d(sqrt(x))/dx = 1 / (2 * sqrt(x)), so
// grad_x = outputGrad / (2 * output). The cached forward output supplies
// sqrt(x).
type SqrtOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSqrtOp creates a new SqrtOp.
func NewSqrtOp(input, output *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{input: input, output: output}
}

// Backward computes grad_x = outputGrad / (2 * sqrt(x)).
func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	two := scalarOfDType(op.output.DType(), 2)
	denom := backend.MulScalar(op.output, two)
	return []*tensor.RawTensor{backend.Div(outputGrad, denom)}
}

// Inputs returns the input tensors.
func (op *SqrtOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *SqrtOp) Output() *tensor.RawTensor {
	return op.output
}
