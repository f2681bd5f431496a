package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-ml/loom/internal/autodiff"
	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
)

func TestNewKVCache(t *testing.T) {
	backend := autodiff.New(cpu.New())

	cache := NewKVCache(16, backend)

	require.NotNil(t, cache)
	assert.Equal(t, 0, cache.Len())
}

func TestKVCache_UpdateAndGet(t *testing.T) {
	backend := autodiff.New(cpu.New())

	cache := NewKVCache(16, backend)

	// [batch=1, heads=2, seq=1, head_dim=4]
	k1 := tensor.Randn[float32](tensor.Shape{1, 2, 1, 4}, backend)
	v1 := tensor.Randn[float32](tensor.Shape{1, 2, 1, 4}, backend)

	cache.Update(k1, v1)
	assert.Equal(t, 1, cache.Len())

	keys, values := cache.Get()
	assert.True(t, keys.Shape().Equal(tensor.Shape{1, 2, 1, 4}))
	assert.True(t, values.Shape().Equal(tensor.Shape{1, 2, 1, 4}))

	// Single entry: returned tensors hold the cached data unchanged.
	assert.Equal(t, k1.Data(), keys.Data())
	assert.Equal(t, v1.Data(), values.Data())
}

func TestKVCache_MultipleUpdates(t *testing.T) {
	backend := autodiff.New(cpu.New())

	cache := NewKVCache(16, backend)

	for i := 0; i < 3; i++ {
		k := tensor.Randn[float32](tensor.Shape{1, 2, 1, 4}, backend)
		v := tensor.Randn[float32](tensor.Shape{1, 2, 1, 4}, backend)
		cache.Update(k, v)
	}

	assert.Equal(t, 3, cache.Len())

	// Entries concatenate along the sequence dimension.
	keys, values := cache.Get()
	assert.True(t, keys.Shape().Equal(tensor.Shape{1, 2, 3, 4}))
	assert.True(t, values.Shape().Equal(tensor.Shape{1, 2, 3, 4}))
}

func TestKVCache_ConcatOrder(t *testing.T) {
	backend := autodiff.New(cpu.New())

	cache := NewKVCache(4, backend)

	k1, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{1, 1, 1, 2}, backend)
	require.NoError(t, err)
	k2, err := tensor.FromSlice([]float32{3, 4}, tensor.Shape{1, 1, 1, 2}, backend)
	require.NoError(t, err)

	cache.Update(k1, k1)
	cache.Update(k2, k2)

	keys, _ := cache.Get()
	assert.Equal(t, []float32{1, 2, 3, 4}, keys.Data())
}

func TestKVCache_Overflow(t *testing.T) {
	backend := autodiff.New(cpu.New())

	cache := NewKVCache(2, backend)

	k := tensor.Randn[float32](tensor.Shape{1, 1, 2, 4}, backend)
	cache.Update(k, k)

	assert.Panics(t, func() {
		cache.Update(k, k)
	}, "update past maxSeqLen should panic")
}

func TestKVCache_GetEmpty(t *testing.T) {
	backend := autodiff.New(cpu.New())

	cache := NewKVCache(4, backend)

	assert.Panics(t, func() {
		cache.Get()
	}, "Get on empty cache should panic")
}

func TestKVCache_Reset(t *testing.T) {
	backend := autodiff.New(cpu.New())

	cache := NewKVCache(4, backend)

	k := tensor.Randn[float32](tensor.Shape{1, 1, 2, 4}, backend)
	cache.Update(k, k)
	require.Equal(t, 2, cache.Len())

	cache.Reset()
	assert.Equal(t, 0, cache.Len())

	// Reusable after reset
	cache.Update(k, k)
	assert.Equal(t, 2, cache.Len())
}

func TestKVCache_WithMultiHeadAttention(t *testing.T) {
	backend := autodiff.New(cpu.New())

	dModel := 16
	mha := NewMultiHeadAttention(dModel, 2, backend)
	cache := NewKVCache(8, backend)

	// Generate token by token, as in autoregressive decoding.
	for step := 0; step < 3; step++ {
		token := tensor.Randn[float32](tensor.Shape{1, 1, dModel}, backend)
		output := mha.ForwardWithCache(token, cache)

		require.True(t, output.Shape().Equal(tensor.Shape{1, 1, dModel}),
			"step %d output shape = %v", step, output.Shape())
		assert.Equal(t, step+1, cache.Len())
	}
}
