package ops

import "github.com/loom-ml/loom/internal/tensor"

// SubOp records output = a - b. The output gradient flows to a unchanged
// and to b negated, each reduced back to its operand's shape if the
// forward pass broadcast.
type SubOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSubOp creates a SubOp for the tape.
func NewSubOp(a, b, output *tensor.RawTensor) *SubOp {
	return &SubOp{a: a, b: b, output: output}
}

// Backward returns [grad_a, grad_b].
func (op *SubOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceBroadcast(outputGrad, op.a.Shape(), backend),
		reduceBroadcast(negateGradient(outputGrad, backend), op.b.Shape(), backend),
	}
}

// Inputs returns [a, b].
func (op *SubOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.a, op.b}
}

// Output returns the difference tensor.
func (op *SubOp) Output() *tensor.RawTensor {
	return op.output
}
