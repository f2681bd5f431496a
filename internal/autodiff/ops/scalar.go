package ops

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// MulScalarOp represents multiplication by a scalar: output = x * s.
//
// Backward: d(x*s)/dx = s, so grad_x = outputGrad * s.
type MulScalarOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	scalar any
}

// NewMulScalarOp creates a new MulScalarOp.
func NewMulScalarOp(input, output *tensor.RawTensor, scalar any) *MulScalarOp {
	return &MulScalarOp{input: input, output: output, scalar: scalar}
}

// Backward scales the output gradient by the same scalar.
func (op *MulScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}
}

// Inputs returns the input tensors.
func (op *MulScalarOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *MulScalarOp) Output() *tensor.RawTensor {
	return op.output
}

// DivScalarOp represents division by a scalar: output = x / s.
//
// Backward: d(x/s)/dx = 1/s, so grad_x = outputGrad / s.
type DivScalarOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	scalar any
}

// NewDivScalarOp creates a new DivScalarOp.
func NewDivScalarOp(input, output *tensor.RawTensor, scalar any) *DivScalarOp {
	return &DivScalarOp{input: input, output: output, scalar: scalar}
}

// Backward divides the output gradient by the same scalar.
func (op *DivScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.DivScalar(outputGrad, op.scalar)}
}

// Inputs returns the input tensors.
func (op *DivScalarOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *DivScalarOp) Output() *tensor.RawTensor {
	return op.output
}

// AddScalarOp represents addition of a scalar: output = x + s.
//
// Backward: d(x+s)/dx = 1, so the gradient passes through unchanged.
type AddScalarOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewAddScalarOp creates a new AddScalarOp.
func NewAddScalarOp(input, output *tensor.RawTensor) *AddScalarOp {
	return &AddScalarOp{input: input, output: output}
}

// Backward passes the output gradient through unchanged.
func (op *AddScalarOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad.Clone()}
}

// Inputs returns the input tensors.
func (op *AddScalarOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *AddScalarOp) Output() *tensor.RawTensor {
	return op.output
}

// SubScalarOp represents subtraction of a scalar: output = x - s.
//
// Backward: d(x-s)/dx = 1, so the gradient passes through unchanged.
type SubScalarOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSubScalarOp creates a new SubScalarOp.
func NewSubScalarOp(input, output *tensor.RawTensor) *SubScalarOp {
	return &SubScalarOp{input: input, output: output}
}

// Backward passes the output gradient through unchanged.
func (op *SubScalarOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad.Clone()}
}

// Inputs returns the input tensors.
func (op *SubScalarOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *SubScalarOp) Output() *tensor.RawTensor {
	return op.output
}

// scalarOfDType converts a float64 constant to the scalar type the backend
// expects for the given dtype.
func scalarOfDType(dtype tensor.DataType, v float64) any {
	switch dtype {
	case tensor.Float32:
		return float32(v)
	case tensor.Float64:
		return v
	default:
		panic(fmt.Sprintf("unsupported dtype %s for scalar", dtype))
	}
}
