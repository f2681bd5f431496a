package ops

import "github.com/loom-ml/loom/internal/tensor"

// MulOp records output = a * b. Each operand's gradient is the output
// gradient times the other operand, reduced back to the operand's shape
// if the forward pass broadcast.
type MulOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewMulOp creates a MulOp for the tape.
func NewMulOp(a, b, output *tensor.RawTensor) *MulOp {
	return &MulOp{a: a, b: b, output: output}
}

// Backward returns [grad_a, grad_b].
func (op *MulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceBroadcast(backend.Mul(outputGrad, op.b), op.a.Shape(), backend),
		reduceBroadcast(backend.Mul(outputGrad, op.a), op.b.Shape(), backend),
	}
}

// Inputs returns [a, b].
func (op *MulOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.a, op.b}
}

// Output returns the product tensor.
func (op *MulOp) Output() *tensor.RawTensor {
	return op.output
}
