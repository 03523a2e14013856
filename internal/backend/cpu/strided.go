package cpu

import "github.com/born-ml/pointnet/internal/tensor"

// broadcastStrides returns the strides for reading a tensor of shape as if it
// had outShape: dimensions of size 1 (and missing leading dimensions) get
// stride 0.
func broadcastStrides(shape, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	src := shape.ComputeStrides()
	offset := len(outShape) - len(shape)
	for i := range shape {
		if shape[i] != 1 {
			strides[offset+i] = src[i]
		}
	}
	return strides
}

// stridedCopy fills dst (row-major over outShape) by walking src with the
// given per-dimension strides. It covers transpose (permuted strides) and
// expand (zero strides) with one odometer loop.
func stridedCopy[T tensor.DType](dst, src []T, outShape tensor.Shape, srcStrides []int) {
	nd := len(outShape)
	coords := make([]int, nd)
	si := 0
	for k := range dst {
		dst[k] = src[si]
		for d := nd - 1; d >= 0; d-- {
			coords[d]++
			si += srcStrides[d]
			if coords[d] < outShape[d] {
				break
			}
			si -= srcStrides[d] * outShape[d]
			coords[d] = 0
		}
	}
}

func broadcastBinary[T tensor.DType](dst, a, b []T, outShape tensor.Shape, aStrides, bStrides []int, op func(x, y T) T) {
	nd := len(outShape)
	coords := make([]int, nd)
	ai, bi := 0, 0
	for k := range dst {
		dst[k] = op(a[ai], b[bi])
		for d := nd - 1; d >= 0; d-- {
			coords[d]++
			ai += aStrides[d]
			bi += bStrides[d]
			if coords[d] < outShape[d] {
				break
			}
			ai -= aStrides[d] * outShape[d]
			bi -= bStrides[d] * outShape[d]
			coords[d] = 0
		}
	}
}
