package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// MaskedFill overwrites elements of x with value wherever the mask equals
// zero. The mask is a 0/1 tensor broadcastable against x (e.g. a causal mask
// of shape [1, 1, seq, seq] against scores of shape [batch, heads, seq, seq]).
//
// Filling happens on a fresh tensor; x is never modified.
func (cpu *CPUBackend) MaskedFill(x, mask *tensor.RawTensor, value float64) *tensor.RawTensor {
	if x.DType() != mask.DType() {
		panic(fmt.Sprintf("maskedFill: x and mask must have same dtype, got %s and %s",
			x.DType(), mask.DType()))
	}

	// The mask may only broadcast INTO x's shape, never enlarge it.
	outShape, _, err := tensor.BroadcastShapes(x.Shape(), mask.Shape())
	if err != nil {
		panic(fmt.Sprintf("maskedFill: %v", err))
	}
	if !outShape.Equal(x.Shape()) {
		panic(fmt.Sprintf("maskedFill: mask shape %v does not broadcast into input shape %v",
			mask.Shape(), x.Shape()))
	}

	result := cpu.newLike(x, "maskedFill")

	maskStrides := broadcastStrides(mask.Shape(), x.Shape())
	outStrides := x.Shape().ComputeStrides()

	switch x.DType() {
	case tensor.Float32:
		maskedFillKernel(result.AsFloat32(), x.AsFloat32(), mask.AsFloat32(), float32(value), outStrides, maskStrides)
	case tensor.Float64:
		maskedFillKernel(result.AsFloat64(), x.AsFloat64(), mask.AsFloat64(), value, outStrides, maskStrides)
	default:
		panic(fmt.Sprintf("maskedFill: unsupported dtype %s", x.DType()))
	}

	return result
}

func maskedFillKernel[T tensor.DType](dst, src, mask []T, value T, outStrides, maskStrides []int) {
	for i := range dst {
		if mask[sourceIndex(i, outStrides, maskStrides)] == 0 {
			dst[i] = value
		} else {
			dst[i] = src[i]
		}
	}
}
