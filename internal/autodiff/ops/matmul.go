package ops

import "github.com/loom-ml/loom/internal/tensor"

// MatMulOp records output = a @ b for 2D operands.
//
// The gradients are the standard matrix calculus results:
//
//	grad_a = outputGrad @ b^T
//	grad_b = a^T @ outputGrad
//
// which already have the operands' shapes, so no reduction is needed.
type MatMulOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewMatMulOp creates a MatMulOp for the tape.
func NewMatMulOp(a, b, output *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{a: a, b: b, output: output}
}

// Backward returns [grad_a, grad_b].
func (op *MatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradA := backend.MatMul(outputGrad, backend.Transpose(op.b, 1, 0))
	gradB := backend.MatMul(backend.Transpose(op.a, 1, 0), outputGrad)
	return []*tensor.RawTensor{gradA, gradB}
}

// Inputs returns [a, b].
func (op *MatMulOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.a, op.b}
}

// Output returns the product tensor.
func (op *MatMulOp) Output() *tensor.RawTensor {
	return op.output
}
