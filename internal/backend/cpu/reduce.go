package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Sum reduces a tensor to a scalar (rank-0) tensor containing the total of
// all elements.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{}, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sum: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = sumSlice(x.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = sumSlice(x.AsFloat64())
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}

	return result
}

func sumSlice[T tensor.DType](src []T) T {
	var total T
	for _, v := range src {
		total += v
	}
	return total
}
