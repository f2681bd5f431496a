// Package ops holds the differentiable operations the gradient tape
// records. The forward computation always happens in the wrapped backend;
// an op only remembers which tensors went in and came out, and knows how
// to turn an output gradient into input gradients.
//
// The op set covers exactly what the attention pipeline needs: the
// element-wise arithmetic ops, 2D and batched matmul, shape ops, scalar
// ops, Exp, Sqrt, Softmax, MaskedFill, Cat and Sum.
package ops

import "github.com/loom-ml/loom/internal/tensor"

// Operation is one recorded step of the forward pass.
type Operation interface {
	// Backward applies the chain rule: given dLoss/dOutput it returns
	// dLoss/dInput for each input, in Inputs() order. A nil entry means
	// no gradient flows to that input.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the tensors this op consumed. Constants an op holds
	// (like a fill mask) are deliberately not listed here.
	Inputs() []*tensor.RawTensor

	// Output returns the tensor this op produced.
	Output() *tensor.RawTensor
}
