package ops

import "github.com/loom-ml/loom/internal/tensor"

// AddOp records output = a + b.
//
// Addition passes the output gradient through to both operands unchanged.
// When the forward pass broadcast an operand (the bias row in a Linear
// layer, for instance), its gradient is summed back down to the operand's
// own shape.
type AddOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewAddOp creates an AddOp for the tape.
func NewAddOp(a, b, output *tensor.RawTensor) *AddOp {
	return &AddOp{a: a, b: b, output: output}
}

// Backward returns [grad_a, grad_b], each reduced to its operand's shape.
func (op *AddOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceBroadcast(outputGrad, op.a.Shape(), backend),
		reduceBroadcast(outputGrad, op.b.Shape(), backend),
	}
}

// Inputs returns [a, b].
func (op *AddOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.a, op.b}
}

// Output returns the sum tensor.
func (op *AddOp) Output() *tensor.RawTensor {
	return op.output
}
