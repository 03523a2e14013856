// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - GEMM through gonum's blas32
//   - Batched matrix multiplication with batch-1 broadcasting
//   - NumPy-compatible broadcasting for element-wise ops
//   - Per-channel statistics and batch normalization
//   - Max reduction with arg-max indices
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/pointnet/backend/cpu"
//	    "github.com/born-ml/pointnet/pointnet"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    head, err := pointnet.NewClassificationHead(pointnet.DefaultConfig(), backend)
//	    ...
//	}
//
// # Parallelism
//
// Batch samples and channels are processed in parallel goroutines. Results
// are identical to sequential execution; use NewWithConfig(Sequential()) to
// disable fan-out.
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation
// is isolated and does not share mutable state.
package cpu
