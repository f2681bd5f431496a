// Package nn implements the attention building blocks: the Module and
// Parameter abstractions, Linear projections, scaled dot-product and
// multi-head attention, causal keep-masks and a KV cache for incremental
// decoding.
package nn

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// Module is the contract every layer in this package satisfies: map an
// input tensor to an output tensor, and enumerate the learnable state.
// The backend type parameter B threads through so layers work unchanged
// over a plain or gradient-recording backend.
type Module[B tensor.Backend] interface {
	// Forward maps an input to an output. Each layer documents the
	// shapes it accepts; violations panic.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters lists every learnable tensor, including those of nested
	// modules. Layers without learnable state return an empty slice.
	Parameters() []*Parameter[B]
}
