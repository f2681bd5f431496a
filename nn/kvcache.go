// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/loom-ml/loom/internal/nn"
	"github.com/loom-ml/loom/internal/tensor"
)

// KVCache is a public alias for the internal KV cache implementation.
//
// KVCache stores key-value pairs for efficient autoregressive generation.
// See internal/nn/kvcache.go for detailed documentation.
type KVCache[B tensor.Backend] = nn.KVCache[B]

// NewKVCache creates a new KV cache holding up to maxSeqLen positions.
//
// Example:
//
//	cache := nn.NewKVCache[B](512, backend)
//	output := mha.ForwardWithCache(token, cache)
func NewKVCache[B tensor.Backend](maxSeqLen int, backend B) *KVCache[B] {
	return nn.NewKVCache[B](maxSeqLen, backend)
}
