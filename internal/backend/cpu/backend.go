// Package cpu implements the CPU backend, with BLAS-backed matrix products
// and batch-level parallelism.
package cpu

import (
	"fmt"

	"github.com/born-ml/pointnet/internal/parallel"
	"github.com/born-ml/pointnet/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
//
// Matrix products go through gonum's blas32 SGEMM; independent batch samples
// and channels are spread over goroutines with internal/parallel. Every
// parallel loop writes disjoint output ranges, so results are identical to a
// sequential run.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend with the default parallel configuration.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallel configuration.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// checkDevice panics if any input lives on a device other than the CPU.
func (cpu *CPUBackend) checkDevice(op string, ts ...*tensor.RawTensor) {
	for _, t := range ts {
		if t.Device() != cpu.device {
			panic(fmt.Sprintf("%s: tensor on %s, backend on %s", op, t.Device(), cpu.device))
		}
	}
}

// batchConfig returns the parallel configuration for loops whose iterations
// are whole samples or channels (few iterations, heavy bodies).
func (cpu *CPUBackend) batchConfig() parallel.Config {
	cfg := cpu.parallel
	cfg.MinChunkSize = 1
	return cfg
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y int64) int64 { return x + y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y int64) int64 { return x * y })
}

// MulScalar multiplies every element of a float32 tensor by scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	cpu.checkDevice("mulscalar", x)
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("mulscalar: unsupported dtype %s", x.DType()))
	}

	result := tensor.MustNewRaw(x.Shape(), x.DType(), cpu.device)
	src, dst := x.AsFloat32(), result.AsFloat32()
	for i, v := range src {
		dst[i] = v * scalar
	}
	return result
}

func (cpu *CPUBackend) binary(
	op string,
	a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	i64 func(x, y int64) int64,
) *tensor.RawTensor {
	cpu.checkDevice(op, a, b)
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}
	result := tensor.MustNewRaw(outShape, a.DType(), cpu.device)

	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)

	switch a.DType() {
	case tensor.Float32:
		broadcastBinary(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), outShape, aStrides, bStrides, f32)
	case tensor.Int64:
		broadcastBinary(result.AsInt64(), a.AsInt64(), b.AsInt64(), outShape, aStrides, bStrides, i64)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}
	return result
}
