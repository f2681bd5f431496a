// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/loom-ml/loom/internal/tensor"

// Backend is the contract compute implementations satisfy. The typed
// Tensor methods delegate every operation here, so swapping backends
// never touches model code.
//
// backend/cpu provides the pure-Go implementation; autodiff wraps any
// Backend to add gradient recording.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y) // delegates to backend.Add
type Backend interface {
	// Element-wise arithmetic with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix products. MatMul is 2D; BatchMatMul multiplies the trailing
	// two dimensions of 3D/4D tensors per leading-dimension combination.
	MatMul(a, b *RawTensor) *RawTensor
	BatchMatMul(a, b *RawTensor) *RawTensor

	// Layout.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Element-wise combination with a scalar.
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Element-wise math.
	Exp(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor

	// Softmax normalizes along dim (negative counts from the right).
	Softmax(x *RawTensor, dim int) *RawTensor

	// MaskedFill writes value wherever the 0/1 keep-mask holds 0.
	MaskedFill(x, mask *RawTensor, value float64) *RawTensor

	// Sum reduces to a scalar (rank-0) tensor.
	Sum(x *RawTensor) *RawTensor

	// Cat joins tensors along dim.
	Cat(tensors []*RawTensor, dim int) *RawTensor

	// Identification.
	Name() string
	Device() Device
}

// Compile-time check that the internal Backend matches the public one.
var _ Backend = tensor.Backend(nil)
