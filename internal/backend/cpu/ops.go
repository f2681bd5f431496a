package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Element-wise binary operations with NumPy-style broadcasting.
//
// Same-shape operands take a fast path: inplace when the left operand's
// buffer is unique, vectorized otherwise. Mismatched shapes go through the
// broadcast path using stride-0 tricks for size-1 dimensions.

// Add performs element-wise addition with broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("add: %v", err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("add: failed to create result tensor: %v", err))
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		if a.IsUnique() {
			addInplace(a, b)
			return a
		}
		addVectorized(result, a, b)
	} else {
		addBroadcast(result, a, b, outShape)
	}

	return result
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("sub: %v", err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sub: failed to create result tensor: %v", err))
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		if a.IsUnique() {
			subInplace(a, b)
			return a
		}
		subVectorized(result, a, b)
	} else {
		subBroadcast(result, a, b, outShape)
	}

	return result
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("mul: %v", err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("mul: failed to create result tensor: %v", err))
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		if a.IsUnique() {
			mulInplace(a, b)
			return a
		}
		mulVectorized(result, a, b)
	} else {
		mulBroadcast(result, a, b, outShape)
	}

	return result
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("div: %v", err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("div: failed to create result tensor: %v", err))
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		if a.IsUnique() {
			divInplace(a, b)
			return a
		}
		divVectorized(result, a, b)
	} else {
		divBroadcast(result, a, b, outShape)
	}

	return result
}

// Inplace dispatchers

func addInplace(a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		addInplaceSlice(a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		addInplaceSlice(a.AsFloat64(), b.AsFloat64())
	}
}

func subInplace(a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		subInplaceSlice(a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		subInplaceSlice(a.AsFloat64(), b.AsFloat64())
	}
}

func mulInplace(a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		mulInplaceSlice(a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		mulInplaceSlice(a.AsFloat64(), b.AsFloat64())
	}
}

func divInplace(a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		divInplaceSlice(a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		divInplaceSlice(a.AsFloat64(), b.AsFloat64())
	}
}

// Vectorized dispatchers

func addVectorized(dst, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		addVectorizedSlice(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		addVectorizedSlice(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	}
}

func subVectorized(dst, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		subVectorizedSlice(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		subVectorizedSlice(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	}
}

func mulVectorized(dst, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		mulVectorizedSlice(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		mulVectorizedSlice(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	}
}

func divVectorized(dst, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		divVectorizedSlice(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		divVectorizedSlice(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	}
}

// Broadcast dispatchers

func addBroadcast(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()

	switch a.DType() {
	case tensor.Float32:
		addBroadcastSlice(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), outStrides, aStrides, bStrides)
	case tensor.Float64:
		addBroadcastSlice(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64(), outStrides, aStrides, bStrides)
	}
}

func subBroadcast(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()

	switch a.DType() {
	case tensor.Float32:
		subBroadcastSlice(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), outStrides, aStrides, bStrides)
	case tensor.Float64:
		subBroadcastSlice(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64(), outStrides, aStrides, bStrides)
	}
}

func mulBroadcast(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()

	switch a.DType() {
	case tensor.Float32:
		mulBroadcastSlice(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), outStrides, aStrides, bStrides)
	case tensor.Float64:
		mulBroadcastSlice(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64(), outStrides, aStrides, bStrides)
	}
}

func divBroadcast(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()

	switch a.DType() {
	case tensor.Float32:
		divBroadcastSlice(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), outStrides, aStrides, bStrides)
	case tensor.Float64:
		divBroadcastSlice(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64(), outStrides, aStrides, bStrides)
	}
}
