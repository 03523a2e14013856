package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/pointnet/internal/parallel"
	"github.com/born-ml/pointnet/internal/tensor"
)

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N), computed with SGEMM.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	cpu.checkDevice("matmul", a, b)
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]

	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("matmul: unsupported dtypes %s, %s", a.DType(), b.DType()))
	}

	result := tensor.MustNewRaw(tensor.Shape{m, n}, tensor.Float32, cpu.device)
	sgemm(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	return result
}

// BatchMatMul performs batched matrix multiplication.
//
// [B, M, K] @ [B, K, N] -> [B, M, N]
//
// A batch dimension of 1 on either operand is broadcast, so a single weight
// matrix [1, M, K] can be applied to every sample of [B, K, N] without
// materializing copies. Samples are multiplied in parallel.
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	cpu.checkDevice("BatchMatMul", a, b)
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 3 || len(bShape) != 3 {
		panic(fmt.Sprintf("BatchMatMul: inputs must be 3D, got %dD and %dD", len(aShape), len(bShape)))
	}
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("BatchMatMul: unsupported dtypes %s, %s", a.DType(), b.DType()))
	}

	batchA, m, k1 := aShape[0], aShape[1], aShape[2]
	batchB, k2, n := bShape[0], bShape[1], bShape[2]

	if batchA != batchB && batchA != 1 && batchB != 1 {
		panic(fmt.Sprintf("BatchMatMul: batch dimension mismatch: %d vs %d", batchA, batchB))
	}
	if k1 != k2 {
		panic(fmt.Sprintf("BatchMatMul: inner dimension mismatch: %d vs %d", k1, k2))
	}

	batch := max(batchA, batchB)
	result := tensor.MustNewRaw(tensor.Shape{batch, m, n}, tensor.Float32, cpu.device)

	aData, bData, cData := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
	sizeA, sizeB, sizeC := m*k1, k1*n, m*n

	parallel.For(batch, func(i int) {
		ai, bi := i, i
		if batchA == 1 {
			ai = 0
		}
		if batchB == 1 {
			bi = 0
		}
		sgemm(
			cData[i*sizeC:(i+1)*sizeC],
			aData[ai*sizeA:(ai+1)*sizeA],
			bData[bi*sizeB:(bi+1)*sizeB],
			m, k1, n,
		)
	}, cpu.batchConfig())

	return result
}

// sgemm computes C = A @ B for dense row-major matrices.
func sgemm(c, a, b []float32, m, k, n int) {
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas32.General{Rows: m, Cols: k, Stride: k, Data: a},
		blas32.General{Rows: k, Cols: n, Stride: n, Data: b},
		0,
		blas32.General{Rows: m, Cols: n, Stride: n, Data: c},
	)
}
