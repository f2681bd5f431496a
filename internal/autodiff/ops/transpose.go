package ops

import "github.com/loom-ml/loom/internal/tensor"

// TransposeOp records output = transpose(input, axes). Transposing moves
// elements without changing them, so the backward pass just routes the
// output gradient back through the inverse permutation.
type TransposeOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	axes   []int
}

// NewTransposeOp creates a TransposeOp for the tape. axes is the forward
// permutation, already normalized by the recording backend.
func NewTransposeOp(input, output *tensor.RawTensor, axes []int) *TransposeOp {
	return &TransposeOp{
		input:  input,
		output: output,
		axes:   axes,
	}
}

// Backward transposes the output gradient with the inverted permutation.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}
	return []*tensor.RawTensor{backend.Transpose(outputGrad, inverse...)}
}

// Inputs returns [input].
func (op *TransposeOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the permuted tensor.
func (op *TransposeOp) Output() *tensor.RawTensor {
	return op.output
}
