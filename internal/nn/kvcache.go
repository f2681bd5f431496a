package nn

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// KVCache accumulates the key and value tensors of an autoregressive
// decode so each step only projects its own token. Steps are kept as
// separate tensors and concatenated on demand, which keeps Update O(1).
//
// Example:
//
//	cache := nn.NewKVCache[B](512, backend)
//	for pos := 0; pos < numTokens; pos++ {
//	    output := mha.ForwardWithCache(queryToken, cache)
//	}
type KVCache[B tensor.Backend] struct {
	keys    []*tensor.Tensor[float32, B]
	values  []*tensor.Tensor[float32, B]
	length  int // cached positions across all entries
	maxLen  int
	backend B
}

// NewKVCache returns an empty cache that holds up to maxSeqLen positions.
func NewKVCache[B tensor.Backend](maxSeqLen int, backend B) *KVCache[B] {
	return &KVCache[B]{
		keys:    make([]*tensor.Tensor[float32, B], 0, maxSeqLen),
		values:  make([]*tensor.Tensor[float32, B], 0, maxSeqLen),
		maxLen:  maxSeqLen,
		backend: backend,
	}
}

// Update appends one step's keys and values, both shaped
// [batch, num_heads, seq_len, head_dim]. Panics when the added positions
// would push the cache past its maximum length.
func (c *KVCache[B]) Update(key, value *tensor.Tensor[float32, B]) {
	seqLen := key.Shape()[2]
	if c.length+seqLen > c.maxLen {
		panic(fmt.Sprintf("KVCache: cache overflow (length=%d + new=%d > max=%d)",
			c.length, seqLen, c.maxLen))
	}

	c.keys = append(c.keys, key)
	c.values = append(c.values, value)
	c.length += seqLen
}

// Get returns all cached keys and values as single tensors shaped
// [batch, num_heads, length, head_dim], concatenating the stored steps
// along the sequence dimension. Panics on an empty cache.
func (c *KVCache[B]) Get() (keys, values *tensor.Tensor[float32, B]) {
	if c.length == 0 {
		panic("KVCache: cannot get from empty cache")
	}

	if len(c.keys) == 1 {
		return c.keys[0], c.values[0]
	}

	return tensor.Cat(c.keys, 2), tensor.Cat(c.values, 2)
}

// Reset empties the cache so it can serve a new sequence.
func (c *KVCache[B]) Reset() {
	c.keys = c.keys[:0]
	c.values = c.values[:0]
	c.length = 0
}

// Len returns how many positions the cache currently holds.
func (c *KVCache[B]) Len() int {
	return c.length
}
