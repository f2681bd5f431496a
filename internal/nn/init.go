package nn

import (
	"math"
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// Xavier draws weights uniformly from ±sqrt(6/(fanIn+fanOut)), the Glorot
// bound that keeps activation variance roughly constant across layers. The
// attention projections initialize their weights this way.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t, err := tensor.NewRaw(shape, tensor.Float32, backend.Device())
	if err != nil {
		panic(err)
	}

	data := t.AsFloat32()
	for i := range data {
		data[i] = float32((rand.Float64()*2 - 1) * bound) //nolint:gosec // weight init, not security-sensitive
	}

	return tensor.New[float32, B](t, backend)
}

// Zeros returns a zero tensor, the conventional bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}

// Ones returns a tensor of ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Ones[float32](shape, backend)
}

// Randn returns a tensor sampled from N(0, 1).
func Randn[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Randn[float32](shape, backend)
}
