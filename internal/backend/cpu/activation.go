package cpu

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// Softmax normalizes x along dim into a probability distribution:
// exp(x_i - max) / Σ exp(x_j - max). Subtracting the row max keeps the
// exponentials finite even for the -1e9 entries a keep-mask leaves behind.
// Negative dims count from the right.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("softmax: dimension %d out of range for tensor of rank %d", dim, ndim))
	}

	result := cpu.newLike(x, "softmax")

	switch x.DType() {
	case tensor.Float32:
		softmaxKernel(result.AsFloat32(), x.AsFloat32(), shape, dim)
	case tensor.Float64:
		softmaxKernel(result.AsFloat64(), x.AsFloat64(), shape, dim)
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s", x.DType()))
	}

	return result
}

// softmaxKernel normalizes every row along dim, where a row is the set of
// elements agreeing on all other coordinates. Rows are addressed through
// strides, so dim does not have to be the last dimension even though the
// attention path always normalizes scores along -1.
func softmaxKernel[T tensor.DType](dst, src []T, shape tensor.Shape, dim int) {
	strides := shape.ComputeStrides()
	dimSize := shape[dim]
	dimStride := strides[dim]

	numRows := shape.NumElements() / dimSize

	for row := 0; row < numRows; row++ {
		// Reassemble the row's base offset from its off-dim coordinates.
		base := 0
		remaining := row
		for i := range shape {
			if i == dim {
				continue
			}
			base += (remaining % shape[i]) * strides[i]
			remaining /= shape[i]
		}

		maxVal := T(math.Inf(-1))
		for i := 0; i < dimSize; i++ {
			if v := src[base+i*dimStride]; v > maxVal {
				maxVal = v
			}
		}

		var sum T
		for i := 0; i < dimSize; i++ {
			idx := base + i*dimStride
			e := T(math.Exp(float64(src[idx] - maxVal)))
			dst[idx] = e
			sum += e
		}

		for i := 0; i < dimSize; i++ {
			dst[base+i*dimStride] /= sum
		}
	}
}
