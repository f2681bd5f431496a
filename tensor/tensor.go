// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// DType constrains tensor element types to float32 and float64.
type DType = tensor.DType

// DataType is the runtime tag for a tensor's element type.
type DataType = tensor.DataType

// The supported element types.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Device identifies where a tensor's buffer lives.
type Device = tensor.Device

// CPU is the only device Loom ships.
const (
	CPU Device = tensor.CPU
)

// Shape holds a tensor's dimensions, e.g. Shape{2, 3, 4}. An empty Shape
// is a scalar.
type Shape = tensor.Shape

// Tensor is the typed tensor: T is the element type, B the backend every
// operation is delegated to. Methods like Add, MatMul and Softmax call
// straight into B, so the same model code runs on a plain backend or a
// gradient-recording one.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// Creation

// Zeros returns a zero-filled tensor of the given shape.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Ones returns a tensor of ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full returns a tensor with every element set to value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Randn returns a tensor sampled from the standard normal distribution.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Randn[T, B](shape, b)
}

// Rand returns a tensor drawn uniformly from [0, 1).
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Rand[T, B](shape, b)
}

// FromSlice copies a Go slice into a new tensor of the given shape.
// Errors when the slice length does not match the shape's element count.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// New wraps an existing RawTensor in a typed Tensor. Backend and autodiff
// code use this; model code normally goes through the creation functions.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// NewRaw allocates a zero-filled RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Manipulation

// Cat joins tensors along dim; every other dimension must agree.
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	return tensor.Cat(tensors, dim)
}

// BroadcastShapes resolves the NumPy-style common shape of two operands.
// The bool result reports whether the operands actually differ.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
