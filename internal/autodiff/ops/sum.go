package ops

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// SumOp represents a total reduction to a scalar: output = Σ x.
//
// Backward: every element contributes with coefficient 1, so the scalar
// output gradient is broadcast back to the input's shape.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward fills a tensor of the input's shape with the scalar gradient.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	inputGrad, err := tensor.NewRaw(op.input.Shape(), op.input.DType(), op.input.Device())
	if err != nil {
		panic(err)
	}

	switch op.input.DType() {
	case tensor.Float32:
		g := outputGrad.AsFloat32()[0]
		data := inputGrad.AsFloat32()
		for i := range data {
			data[i] = g
		}
	case tensor.Float64:
		g := outputGrad.AsFloat64()[0]
		data := inputGrad.AsFloat64()
		for i := range data {
			data[i] = g
		}
	default:
		panic(fmt.Sprintf("SumOp: unsupported dtype %s", op.input.DType()))
	}

	return []*tensor.RawTensor{inputGrad}
}

// Inputs returns the input tensors.
func (op *SumOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *SumOp) Output() *tensor.RawTensor {
	return op.output
}
