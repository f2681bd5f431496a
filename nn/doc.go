// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn is the public API for Loom's attention layers.
//
// # Contents
//
//   - MultiHeadAttention and ScaledDotProductAttention
//   - Linear, the projection layer behind the attention heads
//   - Module, Parameter and the Xavier/Zeros/Ones/Randn initializers
//   - CausalMask and KVCache for autoregressive decoding
//
// # Basic usage
//
//	import (
//	    "github.com/loom-ml/loom/nn"
//	    "github.com/loom-ml/loom/backend/cpu"
//	    "github.com/loom-ml/loom/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    mha := nn.NewMultiHeadAttention[*cpu.Backend](512, 8, backend)
//
//	    x := tensor.Randn[float32](tensor.Shape{2, 10, 512}, backend)
//	    output := mha.Forward(x, x, x, nil) // self-attention
//	}
//
// # Attention
//
// ScaledDotProductAttention is the transformer core:
//
//	Attention(Q, K, V) = softmax(QK^T / sqrt(head_dim)) @ V
//
// MultiHeadAttention projects its inputs, splits them into heads, runs the
// scaled dot-product per head and recombines:
//
//	mha := nn.NewMultiHeadAttention[B](dModel, numHeads, backend)
//	output, weights := mha.ForwardWithWeights(q, k, v, mask)
//
// Masks are 0/1 keep-masks: a 0 excludes that key position from attention.
// CausalMask builds the standard autoregressive one.
//
// # Parameters
//
// Every layer exposes its learnable tensors:
//
//	for _, p := range mha.Parameters() {
//	    fmt.Println(p.Name(), p.Tensor().Shape())
//	}
package nn
