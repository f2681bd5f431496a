// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// RawTensor is the untyped tensor representation that backends compute on:
// a shape, a dtype and a reference-counted buffer exposed through the
// AsFloat32/AsFloat64 views.
//
// RawTensor.Clone shares the buffer and bumps the reference count; the
// count is what lets backends decide between allocating a result and
// reusing a uniquely-owned operand. Most code should stay on the typed
// Tensor[T, B] and only reach for RawTensor when implementing a backend
// or an autodiff operation.
type RawTensor = tensor.RawTensor
