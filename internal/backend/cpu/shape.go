package cpu

import (
	"fmt"

	"github.com/born-ml/pointnet/internal/tensor"
)

// Reshape returns a copy of t with a new shape holding the same number of
// elements.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	cpu.checkDevice("reshape", t)
	view, err := t.View(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return view.Clone()
}

// Transpose permutes the dimensions of t. With no axes, all dimensions are
// reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	cpu.checkDevice("transpose", t)
	shape := t.Shape()
	nd := len(shape)

	if len(axes) == 0 {
		axes = make([]int, nd)
		for i := range axes {
			axes[i] = nd - 1 - i
		}
	}
	if len(axes) != nd {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", nd, len(axes)))
	}

	seen := make([]bool, nd)
	outShape := make(tensor.Shape, nd)
	srcStrides := make([]int, nd)
	inStrides := t.Strides()
	for i, ax := range axes {
		if ax < 0 || ax >= nd || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid permutation %v for %dD tensor", axes, nd))
		}
		seen[ax] = true
		outShape[i] = shape[ax]
		srcStrides[i] = inStrides[ax]
	}

	result := tensor.MustNewRaw(outShape, t.DType(), cpu.device)
	switch t.DType() {
	case tensor.Float32:
		stridedCopy(result.AsFloat32(), t.AsFloat32(), outShape, srcStrides)
	case tensor.Int64:
		stridedCopy(result.AsInt64(), t.AsInt64(), outShape, srcStrides)
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}
	return result
}

// Expand broadcasts the tensor to a new shape.
func (cpu *CPUBackend) Expand(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	cpu.checkDevice("expand", x)
	xShape := x.Shape()

	if len(newShape) < len(xShape) {
		panic(fmt.Sprintf("expand: new shape %v has fewer dimensions than input shape %v",
			newShape, xShape))
	}

	offset := len(newShape) - len(xShape)
	for i := 0; i < len(xShape); i++ {
		xDim := xShape[i]
		newDim := newShape[offset+i]
		if xDim != 1 && xDim != newDim {
			panic(fmt.Sprintf("expand: cannot expand dimension %d from %d to %d",
				i, xDim, newDim))
		}
	}

	result, err := tensor.NewRaw(newShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("expand: %v", err))
	}

	srcStrides := broadcastStrides(xShape, newShape)
	switch x.DType() {
	case tensor.Float32:
		stridedCopy(result.AsFloat32(), x.AsFloat32(), newShape, srcStrides)
	case tensor.Int64:
		stridedCopy(result.AsInt64(), x.AsInt64(), newShape, srcStrides)
	default:
		panic(fmt.Sprintf("expand: unsupported dtype %v", x.DType()))
	}
	return result
}

// Cat concatenates tensors along dim. All other dimensions must match.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: no tensors")
	}
	cpu.checkDevice("cat", tensors...)

	first := tensors[0]
	shape := first.Shape()
	dim = shape.NormalizeDim(dim)

	outShape := shape.Clone()
	outShape[dim] = 0
	for i, t := range tensors {
		ts := t.Shape()
		if len(ts) != len(shape) || t.DType() != first.DType() {
			panic(fmt.Sprintf("cat: tensor %d has shape %v (%s), expected rank %d (%s)",
				i, ts, t.DType(), len(shape), first.DType()))
		}
		for d := range ts {
			if d != dim && ts[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d shape %v incompatible with %v at dim %d", i, ts, shape, d))
			}
		}
		outShape[dim] += ts[dim]
	}

	result := tensor.MustNewRaw(outShape, first.DType(), cpu.device)
	switch first.DType() {
	case tensor.Float32:
		srcs := make([][]float32, len(tensors))
		for i, t := range tensors {
			srcs[i] = t.AsFloat32()
		}
		catBlocks(result.AsFloat32(), srcs, tensors, dim)
	case tensor.Int64:
		srcs := make([][]int64, len(tensors))
		for i, t := range tensors {
			srcs[i] = t.AsInt64()
		}
		catBlocks(result.AsInt64(), srcs, tensors, dim)
	default:
		panic(fmt.Sprintf("cat: unsupported dtype %s", first.DType()))
	}
	return result
}

// catBlocks copies, for every index of the dimensions before dim, one
// contiguous block from each source in order.
func catBlocks[T tensor.DType](dst []T, srcs [][]T, tensors []*tensor.RawTensor, dim int) {
	outer := 1
	for _, d := range tensors[0].Shape()[:dim] {
		outer *= d
	}

	blocks := make([]int, len(tensors))
	for i, t := range tensors {
		blocks[i] = t.NumElements() / outer
	}

	pos := 0
	for o := 0; o < outer; o++ {
		for i, src := range srcs {
			n := blocks[i]
			copy(dst[pos:pos+n], src[o*n:(o+1)*n])
			pos += n
		}
	}
}
