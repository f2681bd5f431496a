package nn

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// MultiHeadAttention implements the multi-head attention mechanism.
//
// Architecture:
//
//	MHA(Q, K, V) = Concat(head_1, ..., head_h) * W_O
//	head_i = SDPA(Q*W_Q_i, K*W_K_i, V*W_V_i)
//
// This is the core attention layer used in all transformer architectures
// including BERT, GPT, LLaMA, and others.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	mha := nn.NewMultiHeadAttention[B](768, 12, backend)  // 768 dim, 12 heads
//	output := mha.Forward(x, x, x, nil)  // Self-attention
//	output := mha.Forward(q, kv, kv, mask)  // Cross-attention
type MultiHeadAttention[B tensor.Backend] struct {
	WQ       *Linear[B] // Query projection [d_model, d_model]
	WK       *Linear[B] // Key projection [d_model, d_model]
	WV       *Linear[B] // Value projection [d_model, d_model]
	WO       *Linear[B] // Output projection [d_model, d_model]
	NumHeads int
	HeadDim  int
	DModel   int
	backend  B
}

// NewMultiHeadAttention creates a new multi-head attention module.
//
// Parameters:
//   - dModel: Total model dimension (must be divisible by numHeads)
//   - numHeads: Number of attention heads
//   - backend: Computation backend
//
// The head dimension is computed as dModel / numHeads.
// Panics if dModel is not divisible by numHeads.
//
// Example:
//
//	mha := nn.NewMultiHeadAttention[B](768, 12, backend)
//	// dModel=768, numHeads=12 -> headDim=64
func NewMultiHeadAttention[B tensor.Backend](
	dModel, numHeads int,
	backend B,
) *MultiHeadAttention[B] {
	if dModel%numHeads != 0 {
		panic(fmt.Sprintf("MultiHeadAttention: d_model (%d) must be divisible by num_heads (%d)", dModel, numHeads))
	}
	headDim := dModel / numHeads

	return &MultiHeadAttention[B]{
		WQ:       NewLinear[B](dModel, dModel, backend),
		WK:       NewLinear[B](dModel, dModel, backend),
		WV:       NewLinear[B](dModel, dModel, backend),
		WO:       NewLinear[B](dModel, dModel, backend),
		NumHeads: numHeads,
		HeadDim:  headDim,
		DModel:   dModel,
		backend:  backend,
	}
}

// SplitHeads reorganizes a projected tensor into per-head layout.
//
// [batch, seq, d_model] -> [batch, num_heads, seq, head_dim]
//
// The d_model dimension is split into num_heads blocks of head_dim, then
// the head dimension is moved before the sequence dimension so each head
// attends independently in the batched matmuls.
func (m *MultiHeadAttention[B]) SplitHeads(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	batch := x.Shape()[0]
	seq := x.Shape()[1]

	return x.Reshape(batch, seq, m.NumHeads, m.HeadDim).Transpose(0, 2, 1, 3)
}

// CombineHeads is the inverse of SplitHeads.
//
// [batch, num_heads, seq, head_dim] -> [batch, seq, d_model]
func (m *MultiHeadAttention[B]) CombineHeads(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	batch := x.Shape()[0]
	seq := x.Shape()[2]

	return x.Transpose(0, 2, 1, 3).Reshape(batch, seq, m.DModel)
}

// Forward computes multi-head attention.
//
// Args:
//   - query: Query tensor [batch, seq_q, d_model]
//   - key: Key tensor [batch, seq_k, d_model]
//   - value: Value tensor [batch, seq_k, d_model]
//   - mask: Optional 0/1 keep-mask broadcastable to [batch, heads, seq_q, seq_k], or nil
//
// Returns:
//   - output: [batch, seq_q, d_model]
//
// For self-attention, pass the same tensor for query, key, and value.
// For cross-attention, query differs from key/value.
func (m *MultiHeadAttention[B]) Forward(
	query, key, value *tensor.Tensor[float32, B],
	mask *tensor.Tensor[float32, B],
) *tensor.Tensor[float32, B] {
	output, _ := m.ForwardWithWeights(query, key, value, mask)
	return output
}

// ForwardWithWeights computes multi-head attention and returns attention weights.
//
// Same as Forward but also returns attention weights for visualization/analysis.
//
// Returns:
//   - output: [batch, seq_q, d_model]
//   - weights: [batch, num_heads, seq_q, seq_k]
func (m *MultiHeadAttention[B]) ForwardWithWeights(
	query, key, value *tensor.Tensor[float32, B],
	mask *tensor.Tensor[float32, B],
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	batch := query.Shape()[0]
	seqQ := query.Shape()[1]
	seqK := key.Shape()[1]

	// 1. Project Q, K, V through linear layers
	q := m.projectAndReshape(query, m.WQ, batch, seqQ)
	k := m.projectAndReshape(key, m.WK, batch, seqK)
	v := m.projectAndReshape(value, m.WV, batch, seqK)

	// 2. Split into heads: [batch, num_heads, seq, head_dim]
	q = m.SplitHeads(q)
	k = m.SplitHeads(k)
	v = m.SplitHeads(v)

	// 3. Scaled dot-product attention (uses BatchMatMul internally)
	attnOut, weights := ScaledDotProductAttention(q, k, v, mask)

	// 4. Combine heads back to [batch, seq_q, d_model]
	attnOut = m.CombineHeads(attnOut)

	// 5. Output projection
	output := m.projectAndReshape(attnOut, m.WO, batch, seqQ)

	return output, weights
}

// ForwardWithCache computes self-attention using a KV cache for efficient
// autoregressive generation.
//
// Instead of recomputing K,V for all previous tokens, cached keys and
// values are reused and only the new token's K,V are computed.
//
// Args:
//   - query: Query tensor [batch, 1, d_model] (typically single token)
//   - cache: KV cache storing previous key-value pairs
//
// Returns:
//   - output: [batch, 1, d_model]
//
// The cache is automatically updated with the new K,V pair.
//
// Example:
//
//	cache := nn.NewKVCache[B](512, backend)
//	for i := 0; i < 100; i++ {
//	    token := getNextToken(i) // [1, 1, 768]
//	    output := mha.ForwardWithCache(token, cache)
//	}
func (m *MultiHeadAttention[B]) ForwardWithCache(
	query *tensor.Tensor[float32, B],
	cache *KVCache[B],
) *tensor.Tensor[float32, B] {
	batch := query.Shape()[0]
	seqQ := query.Shape()[1] // Typically 1 for autoregressive generation

	// 1. Project Q, K, V for the new token (self-attention, so K and V
	// come from the query input too)
	q := m.projectAndReshape(query, m.WQ, batch, seqQ)
	k := m.projectAndReshape(query, m.WK, batch, seqQ)
	v := m.projectAndReshape(query, m.WV, batch, seqQ)

	// 2. Split into heads
	q = m.SplitHeads(q)
	k = m.SplitHeads(k)
	v = m.SplitHeads(v)

	// 3. Update cache and attend over everything cached so far
	cache.Update(k, v)
	cachedK, cachedV := cache.Get()

	// q: [batch, num_heads, 1, head_dim]
	// cachedK, cachedV: [batch, num_heads, cache_len, head_dim]
	attnOut, _ := ScaledDotProductAttention(q, cachedK, cachedV, nil)

	// 4. Combine heads and project
	attnOut = m.CombineHeads(attnOut)
	return m.projectAndReshape(attnOut, m.WO, batch, seqQ)
}

// projectAndReshape reshapes 3D input to 2D, applies the linear projection,
// and reshapes back to 3D.
func (m *MultiHeadAttention[B]) projectAndReshape(
	input *tensor.Tensor[float32, B],
	linear *Linear[B],
	batch, seq int,
) *tensor.Tensor[float32, B] {
	// [batch, seq, d_model] -> [batch*seq, d_model]
	input2D := input.Reshape(batch*seq, m.DModel)

	output2D := linear.Forward(input2D)

	// [batch*seq, d_model] -> [batch, seq, d_model]
	return output2D.Reshape(batch, seq, m.DModel)
}

// Parameters returns all trainable parameters (WQ, WK, WV, WO weights and biases).
func (m *MultiHeadAttention[B]) Parameters() []*Parameter[B] {
	params := make([]*Parameter[B], 0, 8)
	params = append(params, m.WQ.Parameters()...)
	params = append(params, m.WK.Parameters()...)
	params = append(params, m.WV.Parameters()...)
	params = append(params, m.WO.Parameters()...)
	return params
}
