// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/loom-ml/loom/internal/nn"
	"github.com/loom-ml/loom/internal/tensor"
)

// Module is the interface every layer satisfies: Forward plus Parameters.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named learnable tensor with a gradient slot.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter wraps an initialized tensor as a learnable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Linear is a dense layer computing y = x @ W^T + b. MultiHeadAttention
// uses four of them as its Q/K/V/output projections.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a dense layer with Xavier weights and a zero bias.
//
// Example:
//
//	backend := cpu.New()
//	proj := nn.NewLinear(512, 512, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// Initialization

// Xavier draws weights uniformly from the Glorot bound
// ±sqrt(6/(fanIn+fanOut)).
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Zeros returns a zero tensor, the conventional bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}

// Ones returns a tensor of ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Ones(shape, backend)
}

// Randn returns a tensor sampled from N(0, 1).
func Randn[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Randn(shape, backend)
}

// Attention

// ScaledDotProductAttention computes softmax(QK^T / sqrt(head_dim)) @ V.
//
// Inputs are [batch, heads, seq, head_dim] (seq may differ between query
// and key/value for cross-attention). The optional mask is a 0/1
// keep-mask broadcastable to [batch, heads, seq_q, seq_k]; masked scores
// are overwritten with -1e9 before the softmax. Returns the attended
// values and the attention weights.
//
// Example:
//
//	Q := tensor.Randn[float32](tensor.Shape{2, 8, 10, 64}, backend)
//	K := tensor.Randn[float32](tensor.Shape{2, 8, 10, 64}, backend)
//	V := tensor.Randn[float32](tensor.Shape{2, 8, 10, 64}, backend)
//	output, weights := nn.ScaledDotProductAttention(Q, K, V, nil)
func ScaledDotProductAttention[B tensor.Backend](
	query, key, value *tensor.Tensor[float32, B],
	mask *tensor.Tensor[float32, B],
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	return nn.ScaledDotProductAttention(query, key, value, mask)
}

// CausalMask builds the autoregressive keep-mask: ones on and below the
// diagonal, zeros above, shaped [1, 1, seqLen, seqLen] so it broadcasts
// over batch and heads.
//
// Example:
//
//	mask := nn.CausalMask(10, backend)
//	output, weights := nn.ScaledDotProductAttention(Q, K, V, mask)
func CausalMask[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[float32, B] {
	return nn.CausalMask(seqLen, backend)
}

// MultiHeadAttention runs several attention heads in parallel over learned
// projections and concatenates the results.
type MultiHeadAttention[B tensor.Backend] = nn.MultiHeadAttention[B]

// NewMultiHeadAttention creates a multi-head attention module with four
// dModel-to-dModel projections. Panics when dModel is not divisible by
// numHeads.
//
// Example:
//
//	mha := nn.NewMultiHeadAttention[*cpu.Backend](512, 8, backend)
//	output := mha.Forward(x, x, x, nil) // self-attention
func NewMultiHeadAttention[B tensor.Backend](dModel, numHeads int, backend B) *MultiHeadAttention[B] {
	return nn.NewMultiHeadAttention[B](dModel, numHeads, backend)
}
