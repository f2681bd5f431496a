package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// BatchMatMul multiplies the trailing two dimensions of a and b for every
// leading-dimension combination:
//
//	[B, M, K] @ [B, K, N]       -> [B, M, N]
//	[B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
//
// The 4D form is the attention workhorse: Q @ K^T per batch and head, then
// weights @ V. Leading dimensions must match exactly; this op does not
// broadcast them.
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()
	ndim := len(aShape)

	if ndim < 3 {
		panic(fmt.Sprintf("BatchMatMul: inputs must be at least 3D, got %dD", ndim))
	}
	if len(bShape) != ndim {
		panic(fmt.Sprintf("BatchMatMul: dimension mismatch, got %dD and %dD", ndim, len(bShape)))
	}

	batch := 1
	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(fmt.Sprintf("BatchMatMul: batch dimension mismatch at dim %d: %d vs %d", i, aShape[i], bShape[i]))
		}
		batch *= aShape[i]
	}

	m, k := aShape[ndim-2], aShape[ndim-1]
	n := bShape[ndim-1]
	if bShape[ndim-2] != k {
		panic(fmt.Sprintf("BatchMatMul: inner dimension mismatch: %d vs %d", k, bShape[ndim-2]))
	}

	outShape := aShape.Clone()
	outShape[ndim-1] = n

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("BatchMatMul: failed to create result tensor: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		batchMatmulKernel(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), batch, m, k, n)
	case tensor.Float64:
		batchMatmulKernel(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), batch, m, k, n)
	default:
		panic(fmt.Sprintf("BatchMatMul: unsupported dtype %s", a.DType()))
	}

	return result
}

// batchMatmulKernel runs the 2D matmul kernel once per batch slice; the
// slices are contiguous, so each gets a plain offset into the flat buffers.
func batchMatmulKernel[T tensor.DType](c, a, b []T, batch, m, k, n int) {
	for idx := 0; idx < batch; idx++ {
		aOff := idx * m * k
		bOff := idx * k * n
		cOff := idx * m * n

		matmulKernel(c[cOff:cOff+m*n], a[aOff:aOff+m*k], b[bOff:bOff+k*n], m, k, n)
	}
}
