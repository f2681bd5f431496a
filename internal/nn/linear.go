package nn

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Linear is a dense layer computing y = x @ W^T + b. In this library it
// serves as the Q/K/V/output projection inside MultiHeadAttention, where
// in and out features are both dModel.
//
// The weight is stored as [outFeatures, inFeatures] and transposed at
// call time; the bias is a single [outFeatures] row broadcast over the
// batch. Weights start Xavier-uniform, biases at zero.
//
// Example:
//
//	backend := cpu.New()
//	proj := nn.NewLinear(512, 512, backend)
//
//	x := tensor.Randn[float32](tensor.Shape{10, 512}, backend)
//	y := proj.Forward(x) // [10, 512]
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B]
	bias        *Parameter[B]
	backend     B
}

// NewLinear creates a dense layer with Xavier-initialized weights and a
// zero bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	weight := Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, backend)
	bias := Zeros(tensor.Shape{outFeatures}, backend)

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
		backend:     backend,
	}
}

// Forward applies the layer to a [batch, inFeatures] input and returns
// [batch, outFeatures]. Panics on rank or feature-count mismatch.
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", shape))
	}
	if shape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, shape[1]))
	}

	// [batch, in] @ [in, out] = [batch, out]
	output := input.MatMul(l.weight.Tensor().Transpose())

	// Lift the bias to [1, out] so it broadcasts across the batch rows.
	return output.Add(l.bias.Tensor().Reshape(1, l.outFeatures))
}

// Parameters returns [weight, bias].
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// Weight returns the [outFeatures, inFeatures] weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the [outFeatures] bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

// InFeatures returns the expected input width.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the produced output width.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}
