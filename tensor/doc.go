// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the PointNet models.
//
// # Overview
//
// Tensors are the data structure every PointNet component consumes and
// produces. This package provides:
//   - Generic type-safe tensors (Tensor[T, B]) over float32 and int64
//   - NumPy-style broadcasting
//   - Batched matrix multiplication for per-sample alignment matrices
//   - Max reduction with arg-max indices (critical points)
//   - Device tagging (CPU, CUDA, ...) for placement checks
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/pointnet/backend/cpu"
//	    "github.com/born-ml/pointnet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // A batch of 8 clouds with 2500 xyz points, channel-first.
//	    points := tensor.Zeros[float32](tensor.Shape{8, 3, 2500}, backend)
//
//	    // Apply per-sample 3x3 transforms: (xᵀ·A)ᵀ = Aᵀ·x
//	    align := tensor.Eye[float32](3, backend).Reshape(1, 3, 3)
//	    aligned := align.Transpose(0, 2, 1).BatchMatMul(points)
//
//	    // Global max over the point axis.
//	    global, critical := aligned.MaxDim(2) // [8, 3], [8, 3]
//	}
//
// # Layout
//
// Tensors are dense and row-major. Every operation returns a new tensor;
// inputs are never modified. Data() exposes the underlying storage without
// copying.
//
// # Supported Data Types
//
//   - float32 for features, weights and logits
//   - int64 for indices (critical points, predicted labels)
package tensor
