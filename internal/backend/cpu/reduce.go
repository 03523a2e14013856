package cpu

import (
	"fmt"

	"github.com/born-ml/pointnet/internal/parallel"
	"github.com/born-ml/pointnet/internal/tensor"
)

// MaxDim reduces dim by taking the maximum value.
//
// Returns the maxima (shape of x without dim) and an int64 tensor of the same
// shape holding, for each output element, the index along dim of the first
// element attaining the maximum. NaN entries are skipped unless the whole
// slice is NaN.
//
// For a feature map [B, C, N] reduced over dim 2 this yields the global
// feature vector [B, C] and the critical point index of every channel.
func (cpu *CPUBackend) MaxDim(x *tensor.RawTensor, dim int) (values, indices *tensor.RawTensor) {
	cpu.checkDevice("maxdim", x)
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("maxdim: unsupported dtype %s", x.DType()))
	}

	shape := x.Shape()
	dim = shape.NormalizeDim(dim)

	outer, inner := 1, 1
	for _, d := range shape[:dim] {
		outer *= d
	}
	for _, d := range shape[dim+1:] {
		inner *= d
	}
	size := shape[dim]

	outShape := make(tensor.Shape, 0, len(shape)-1)
	outShape = append(outShape, shape[:dim]...)
	outShape = append(outShape, shape[dim+1:]...)
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	values = tensor.MustNewRaw(outShape, tensor.Float32, cpu.device)
	indices = tensor.MustNewRaw(outShape, tensor.Int64, cpu.device)

	src := x.AsFloat32()
	vals := values.AsFloat32()
	idxs := indices.AsInt64()

	parallel.For(outer, func(o int) {
		base := o * size * inner
		for in := 0; in < inner; in++ {
			best := src[base+in]
			bestIdx := 0
			for s := 1; s < size; s++ {
				if v := src[base+s*inner+in]; v > best || best != best {
					best = v
					bestIdx = s
				}
			}
			vals[o*inner+in] = best
			idxs[o*inner+in] = int64(bestIdx)
		}
	}, cpu.batchConfig())

	return values, indices
}
