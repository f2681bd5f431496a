package ops

import "github.com/loom-ml/loom/internal/tensor"

// DivOp records output = a / b with gradients
//
//	grad_a = outputGrad / b
//	grad_b = -outputGrad * (a/b) / b
//
// grad_b reuses the cached output as a/b rather than recomputing a/b².
type DivOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewDivOp creates a DivOp for the tape.
func NewDivOp(a, b, output *tensor.RawTensor) *DivOp {
	return &DivOp{a: a, b: b, output: output}
}

// Backward returns [grad_a, grad_b].
func (op *DivOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradA := reduceBroadcast(backend.Div(outputGrad, op.b), op.a.Shape(), backend)

	gradBFull := backend.Div(backend.Mul(outputGrad, op.output), op.b)
	gradB := reduceBroadcast(negateGradient(gradBFull, backend), op.b.Shape(), backend)

	return []*tensor.RawTensor{gradA, gradB}
}

// Inputs returns [a, b].
func (op *DivOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.a, op.b}
}

// Output returns the quotient tensor.
func (op *DivOp) Output() *tensor.RawTensor {
	return op.output
}
