// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu exposes the pure-Go compute backend. It is the reference
// implementation of tensor.Backend and the only device Loom ships.
package cpu

import (
	internalcpu "github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/tensor"
)

// Backend computes every tensor operation in plain Go, with no cgo or
// SIMD dependencies. Wrap it with autodiff.New for gradient support.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New returns a ready-to-use CPU backend.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func New() *Backend {
	return internalcpu.New()
}
