package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Cat concatenates tensors along the given dimension. All inputs must share
// dtype and rank, and agree on every dimension except dim. Used by the KV
// cache to append new key/value blocks along the sequence axis.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: no tensors to concatenate")
	}

	first := tensors[0]
	ndim := len(first.Shape())

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: dimension %d out of range for tensor of rank %d", dim, ndim))
	}

	catDimSize := 0
	for i, t := range tensors {
		if t.DType() != first.DType() {
			panic(fmt.Sprintf("cat: dtype mismatch: tensor %d has %s, expected %s",
				i, t.DType(), first.DType()))
		}
		shape := t.Shape()
		if len(shape) != ndim {
			panic(fmt.Sprintf("cat: rank mismatch: tensor %d has rank %d, expected %d",
				i, len(shape), ndim))
		}
		for d := 0; d < ndim; d++ {
			if d != dim && shape[d] != first.Shape()[d] {
				panic(fmt.Sprintf("cat: shape mismatch at dim %d: tensor %d has %d, expected %d",
					d, i, shape[d], first.Shape()[d]))
			}
		}
		catDimSize += shape[dim]
	}

	outShape := first.Shape().Clone()
	outShape[dim] = catDimSize

	result, err := tensor.NewRaw(outShape, first.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	// Every input decomposes into outerSize blocks of shape[dim]*innerSize
	// contiguous elements; blocks from each input interleave in the output.
	outerSize := 1
	for d := 0; d < dim; d++ {
		outerSize *= first.Shape()[d]
	}
	innerSize := 1
	for d := dim + 1; d < ndim; d++ {
		innerSize *= first.Shape()[d]
	}

	switch first.DType() {
	case tensor.Float32:
		srcs := make([][]float32, len(tensors))
		for i, t := range tensors {
			srcs[i] = t.AsFloat32()
		}
		catKernel(result.AsFloat32(), srcs, tensors, dim, outerSize, innerSize)
	case tensor.Float64:
		srcs := make([][]float64, len(tensors))
		for i, t := range tensors {
			srcs[i] = t.AsFloat64()
		}
		catKernel(result.AsFloat64(), srcs, tensors, dim, outerSize, innerSize)
	default:
		panic(fmt.Sprintf("cat: unsupported dtype %s", first.DType()))
	}

	return result
}

func catKernel[T tensor.DType](dst []T, srcs [][]T, tensors []*tensor.RawTensor, dim, outerSize, innerSize int) {
	dstOffset := 0
	for outer := 0; outer < outerSize; outer++ {
		for i, src := range srcs {
			blockSize := tensors[i].Shape()[dim] * innerSize
			srcOffset := outer * blockSize
			copy(dst[dstOffset:dstOffset+blockSize], src[srcOffset:srcOffset+blockSize])
			dstOffset += blockSize
		}
	}
}
