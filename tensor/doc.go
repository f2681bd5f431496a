// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor is the public tensor API of Loom.
//
// # Overview
//
// Everything in Loom moves through tensors. The package re-exports:
//   - Tensor[T, B], the generic typed tensor
//   - RawTensor, the untyped representation backends compute on
//   - Backend, the interface compute implementations satisfy
//   - Shape, DataType and Device
//
// # Basic usage
//
//	import (
//	    "github.com/loom-ml/loom/tensor"
//	    "github.com/loom-ml/loom/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//
//	    z := x.Add(y)
//	    scores := x.MatMul(y.Transpose())
//	}
//
// # Element types
//
// The DType constraint admits float32 and float64; attention math needs
// nothing else.
//
// # Broadcasting
//
// Binary operations follow NumPy rules, aligning shapes from the right and
// stretching size-1 dimensions:
//
//	a := tensor.Zeros[float32](tensor.Shape{3, 1}, backend) // (3, 1)
//	b := tensor.Ones[float32](tensor.Shape{3, 4}, backend)  // (3, 4)
//	c := a.Add(b)                                            // (3, 4)
//
// # Memory
//
// Buffers are reference counted. Clones share storage until a backend
// needs to write, and uniquely-owned operands may be reused in place.
package tensor
