package nn

import (
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// maskFill is the value written into masked-out attention scores before
// softmax. A large negative finite value rather than -inf: after softmax
// the masked positions come out effectively zero without producing NaNs
// when an entire row is masked.
const maskFill = -1e9

// ScaledDotProductAttention computes attention using the scaled dot-product mechanism.
//
// This is the core attention mechanism used in transformers, implementing:
//
//	Attention(Q, K, V) = softmax(QK^T / sqrt(d_k)) * V
//
// Where:
//   - Q (query): what information we're looking for [batch, heads, seq_q, head_dim]
//   - K (key): what information is available [batch, heads, seq_k, head_dim]
//   - V (value): the actual information to retrieve [batch, heads, seq_k, head_dim]
//
// The mask, when provided, is a 0/1 keep-mask broadcastable to
// [batch, heads, seq_q, seq_k]: positions where the mask is 0 are filled
// with a large negative value before softmax, so they receive (near-)zero
// attention weight.
//
// Returns:
//   - output: Attended values [batch, heads, seq_q, head_dim]
//   - weights: Attention weights [batch, heads, seq_q, seq_k]
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	Q := tensor.Randn[float32](tensor.Shape{2, 8, 10, 64}, backend)  // batch=2, heads=8, seq=10, dim=64
//	K := tensor.Randn[float32](tensor.Shape{2, 8, 10, 64}, backend)
//	V := tensor.Randn[float32](tensor.Shape{2, 8, 10, 64}, backend)
//	output, weights := nn.ScaledDotProductAttention(Q, K, V, nil)
func ScaledDotProductAttention[B tensor.Backend](
	query, key, value *tensor.Tensor[float32, B],
	mask *tensor.Tensor[float32, B],
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	validateAttentionInputs(query, key, value)

	headDim := query.Shape()[3]

	// 1. Compute attention scores: Q @ K^T
	// K^T: transpose last two dimensions [batch, heads, seq_k, head_dim] -> [batch, heads, head_dim, seq_k]
	kT := key.Transpose(0, 1, 3, 2)
	scores := query.BatchMatMul(kT)

	// 2. Scale by 1/sqrt(head_dim)
	scores = scores.DivScalar(float32(math.Sqrt(float64(headDim))))

	// 3. Apply mask (if provided): masked-out positions get a large negative score
	if mask != nil {
		scores = scores.MaskedFill(mask, maskFill)
	}

	// 4. Softmax along last dimension (over keys)
	weights := scores.Softmax(-1)

	// 5. Compute output: weights @ V
	output := weights.BatchMatMul(value)

	return output, weights
}

// validateAttentionInputs validates the input tensors for attention.
func validateAttentionInputs[B tensor.Backend](
	query, key, value *tensor.Tensor[float32, B],
) {
	if len(query.Shape()) != 4 {
		panic("ScaledDotProductAttention: query must be 4D [batch, heads, seq_q, head_dim]")
	}
	if len(key.Shape()) != 4 {
		panic("ScaledDotProductAttention: key must be 4D [batch, heads, seq_k, head_dim]")
	}
	if len(value.Shape()) != 4 {
		panic("ScaledDotProductAttention: value must be 4D [batch, heads, seq_k, head_dim]")
	}

	// Q and K must have same head_dim
	if query.Shape()[3] != key.Shape()[3] {
		panic("ScaledDotProductAttention: query and key must have same head_dim")
	}

	// K and V must have same seq length
	if key.Shape()[2] != value.Shape()[2] {
		panic("ScaledDotProductAttention: key and value must have same seq length")
	}
}

// CausalMask creates a causal (autoregressive) attention keep-mask.
//
// In causal attention, each position may only attend to earlier positions
// (including itself). The returned mask holds 1 where attention is allowed
// and 0 where it is forbidden:
//
//	// For seq_len=4:
//	// [[1, 0, 0, 0],
//	//  [1, 1, 0, 0],
//	//  [1, 1, 1, 0],
//	//  [1, 1, 1, 1]]
//
// Shape: [1, 1, seq_len, seq_len] (broadcastable to [batch, heads, seq, seq]).
//
// Example:
//
//	backend := cpu.New()
//	mask := nn.CausalMask(10, backend)  // [1, 1, 10, 10]
func CausalMask[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[float32, B] {
	mask := tensor.Zeros[float32](tensor.Shape{1, 1, seqLen, seqLen}, backend)

	data := mask.Data()
	for i := 0; i < seqLen; i++ {
		for j := 0; j <= i; j++ {
			// Flattened index of [0, 0, i, j] for shape [1, 1, seq_len, seq_len]
			data[i*seqLen+j] = 1
		}
	}

	return mask
}
