package cpu

import "github.com/loom-ml/loom/internal/tensor"

// Generic kernels shared by the float32 and float64 dispatch paths.

// Inplace kernels

func addInplaceSlice[T tensor.DType](a, b []T) {
	for i := range a {
		a[i] += b[i]
	}
}

func subInplaceSlice[T tensor.DType](a, b []T) {
	for i := range a {
		a[i] -= b[i]
	}
}

func mulInplaceSlice[T tensor.DType](a, b []T) {
	for i := range a {
		a[i] *= b[i]
	}
}

func divInplaceSlice[T tensor.DType](a, b []T) {
	for i := range a {
		a[i] /= b[i]
	}
}

// Vectorized kernels

func addVectorizedSlice[T tensor.DType](dst, a, b []T) {
	for i := range a {
		dst[i] = a[i] + b[i]
	}
}

func subVectorizedSlice[T tensor.DType](dst, a, b []T) {
	for i := range a {
		dst[i] = a[i] - b[i]
	}
}

func mulVectorizedSlice[T tensor.DType](dst, a, b []T) {
	for i := range a {
		dst[i] = a[i] * b[i]
	}
}

func divVectorizedSlice[T tensor.DType](dst, a, b []T) {
	for i := range a {
		dst[i] = a[i] / b[i]
	}
}

// Broadcast kernels: iterate output positions and map each back to the
// source positions via broadcast-adjusted strides (stride 0 repeats).

func addBroadcastSlice[T tensor.DType](dst, a, b []T, outStrides, aStrides, bStrides []int) {
	for i := range dst {
		dst[i] = a[sourceIndex(i, outStrides, aStrides)] + b[sourceIndex(i, outStrides, bStrides)]
	}
}

func subBroadcastSlice[T tensor.DType](dst, a, b []T, outStrides, aStrides, bStrides []int) {
	for i := range dst {
		dst[i] = a[sourceIndex(i, outStrides, aStrides)] - b[sourceIndex(i, outStrides, bStrides)]
	}
}

func mulBroadcastSlice[T tensor.DType](dst, a, b []T, outStrides, aStrides, bStrides []int) {
	for i := range dst {
		dst[i] = a[sourceIndex(i, outStrides, aStrides)] * b[sourceIndex(i, outStrides, bStrides)]
	}
}

func divBroadcastSlice[T tensor.DType](dst, a, b []T, outStrides, aStrides, bStrides []int) {
	for i := range dst {
		dst[i] = a[sourceIndex(i, outStrides, aStrides)] / b[sourceIndex(i, outStrides, bStrides)]
	}
}
