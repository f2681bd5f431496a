// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff adds reverse-mode automatic differentiation to any
// compute backend. The wrapper records each operation on a gradient tape
// during the forward pass; Backward then replays the tape in reverse to
// produce gradients.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
//	backend.Tape().StartRecording()
//
//	x := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	y := x.Mul(x)
//
//	grads := autodiff.Backward(y, backend)
//	dx := grads[x.Raw()]
package autodiff

import (
	"github.com/loom-ml/loom/internal/autodiff"
	"github.com/loom-ml/loom/internal/tensor"
)

// Backend wraps an inner backend of type B and records operations while
// its tape is recording. It satisfies tensor.Backend itself, so layers
// accept it anywhere a plain backend fits.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New wraps backend with gradient recording. Recording starts off; call
// Tape().StartRecording() before the forward pass you want gradients for.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape holds the recorded forward operations.
type GradientTape = autodiff.GradientTape

// NewGradientTape returns an empty tape with recording off.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable is satisfied by backends carrying a gradient tape.
type BackwardCapable = autodiff.BackwardCapable

// Backward seeds t's gradient with ones and walks the tape in reverse,
// returning a map from each forward tensor to its gradient.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
