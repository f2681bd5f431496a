package cpu

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// Exp raises e to each element.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapElements(x, "exp", math.Exp)
}

// Sqrt takes the square root of each element.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapElements(x, "sqrt", math.Sqrt)
}

// mapElements applies fn elementwise into a fresh tensor. fn works in
// float64; float32 inputs round-trip through it.
func (cpu *CPUBackend) mapElements(x *tensor.RawTensor, name string, fn func(float64) float64) *tensor.RawTensor {
	result := cpu.newLike(x, name)

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(fn(float64(v)))
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		for i, v := range src {
			dst[i] = fn(v)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}
