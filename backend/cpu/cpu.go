// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/pointnet/internal/backend/cpu"
	"github.com/born-ml/pointnet/internal/parallel"
	"github.com/born-ml/pointnet/tensor"
)

// Backend represents the CPU backend implementation.
//
// CPU backend provides pure Go implementations of all tensor operations,
// with matrix products delegated to gonum's BLAS.
type Backend = internalcpu.CPUBackend

// ParallelConfig controls how the backend fans work out over the batch.
type ParallelConfig = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend using all available cores.
//
// Example:
//
//	import (
//	    "github.com/born-ml/pointnet/backend/cpu"
//	    "github.com/born-ml/pointnet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
//
// Example:
//
//	backend := cpu.NewWithConfig(cpu.Sequential())
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultParallelConfig returns the configuration used by New.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// Sequential returns a configuration that disables parallel execution.
func Sequential() ParallelConfig {
	return parallel.Sequential()
}
