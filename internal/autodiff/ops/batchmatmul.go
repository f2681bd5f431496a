package ops

import "github.com/loom-ml/loom/internal/tensor"

// BatchMatMulOp represents a batched matrix multiplication operation: output = a @ b.
//
// Backward pass:
//   - d(A@B)/dA = outputGrad @ B^T
//   - d(A@B)/dB = A^T @ outputGrad
//
// Where @ denotes batched matrix multiplication and ^T transposes the last
// two dimensions, leaving batch dimensions in place.
type BatchMatMulOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor   // a @ b
}

// NewBatchMatMulOp creates a new BatchMatMulOp.
func NewBatchMatMulOp(a, b, output *tensor.RawTensor) *BatchMatMulOp {
	return &BatchMatMulOp{
		inputs: []*tensor.RawTensor{a, b},
		output: output,
	}
}

// Backward computes gradients for batch matmul.
// Given C = A @ B:
//
//	dL/dA = dL/dC @ B^T
//	dL/dB = A^T @ dL/dC
func (op *BatchMatMulOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	axes := swapLastTwoAxes(len(a.Shape()))

	bT := backend.Transpose(b, axes...)
	aT := backend.Transpose(a, axes...)

	gradA := backend.BatchMatMul(grad, bT)
	gradB := backend.BatchMatMul(aT, grad)

	return []*tensor.RawTensor{gradA, gradB}
}

// Inputs returns the input tensors [a, b].
func (op *BatchMatMulOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor a @ b.
func (op *BatchMatMulOp) Output() *tensor.RawTensor {
	return op.output
}
