package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/pointnet/internal/parallel"
	"github.com/born-ml/pointnet/internal/tensor"
)

func raw32(t *testing.T, shape tensor.Shape, data ...float32) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	require.Len(t, data, shape.NumElements())
	copy(r.AsFloat32(), data)
	return r
}

func backends() map[string]*CPUBackend {
	return map[string]*CPUBackend{
		"default":    New(),
		"sequential": NewWithConfig(parallel.Sequential()),
		"fine":       NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}),
	}
}

func TestCPUBackend_Metadata(t *testing.T) {
	b := New()
	assert.Equal(t, "CPU", b.Name())
	assert.Equal(t, tensor.CPU, b.Device())

	var _ tensor.Backend = b
}

func TestAdd_Broadcast(t *testing.T) {
	for name, b := range backends() {
		t.Run(name, func(t *testing.T) {
			// [2, 2, 2] + [2, 2]: identity broadcast over the batch.
			x := raw32(t, tensor.Shape{2, 2, 2},
				1, 2, 3, 4,
				5, 6, 7, 8)
			eye := raw32(t, tensor.Shape{2, 2}, 1, 0, 0, 1)

			out := b.Add(x, eye)
			assert.Equal(t, tensor.Shape{2, 2, 2}, out.Shape())
			assert.Equal(t, []float32{2, 2, 3, 5, 6, 6, 7, 9}, out.AsFloat32())

			// Inputs are untouched.
			assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, x.AsFloat32())
		})
	}
}

func TestAdd_ChannelBias(t *testing.T) {
	b := New()
	x := raw32(t, tensor.Shape{1, 2, 3}, 0, 0, 0, 1, 1, 1)
	bias := raw32(t, tensor.Shape{1, 2, 1}, 10, 20)

	out := b.Add(x, bias)
	assert.Equal(t, []float32{10, 10, 10, 21, 21, 21}, out.AsFloat32())
}

func TestAdd_IncompatiblePanics(t *testing.T) {
	b := New()
	x := raw32(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)
	y := raw32(t, tensor.Shape{2, 2}, 1, 2, 3, 4)
	assert.Panics(t, func() { b.Add(x, y) })
}

func TestMul(t *testing.T) {
	b := New()
	x := raw32(t, tensor.Shape{2, 2}, 1, 2, 3, 4)
	mask := raw32(t, tensor.Shape{2, 2}, 0, 2, 2, 0)
	assert.Equal(t, []float32{0, 4, 6, 0}, b.Mul(x, mask).AsFloat32())
	assert.Equal(t, []float32{0.5, 1, 1.5, 2}, b.MulScalar(x, 0.5).AsFloat32())
}

func TestMatMul(t *testing.T) {
	b := New()
	x := raw32(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)
	y := raw32(t, tensor.Shape{3, 2}, 7, 8, 9, 10, 11, 12)

	out := b.MatMul(x, y)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, out.AsFloat32())

	assert.Panics(t, func() { b.MatMul(x, x) })
}

func TestBatchMatMul(t *testing.T) {
	for name, b := range backends() {
		t.Run(name, func(t *testing.T) {
			// Two [2, 2] @ [2, 1] products.
			x := raw32(t, tensor.Shape{2, 2, 2},
				1, 0, 0, 1,
				2, 0, 0, 3)
			y := raw32(t, tensor.Shape{2, 2, 1},
				5, 6,
				7, 8)

			out := b.BatchMatMul(x, y)
			assert.Equal(t, tensor.Shape{2, 2, 1}, out.Shape())
			assert.Equal(t, []float32{5, 6, 14, 24}, out.AsFloat32())
		})
	}
}

func TestBatchMatMul_BroadcastWeights(t *testing.T) {
	b := New()
	// A single [1, 2, 3] weight applied to a [2, 3, 2] batch, the pointwise
	// convolution pattern.
	w := raw32(t, tensor.Shape{1, 2, 3},
		1, 1, 1,
		1, 0, -1)
	x := raw32(t, tensor.Shape{2, 3, 2},
		1, 2,
		3, 4,
		5, 6,

		0, 1,
		0, 1,
		0, 1)

	out := b.BatchMatMul(w, x)
	assert.Equal(t, tensor.Shape{2, 2, 2}, out.Shape())
	assert.Equal(t, []float32{
		9, 12,
		-4, -4,

		0, 3,
		0, 0,
	}, out.AsFloat32())
}

func TestBatchMatMul_Mismatch(t *testing.T) {
	b := New()
	x := raw32(t, tensor.Shape{2, 2, 2}, 1, 2, 3, 4, 5, 6, 7, 8)
	y := raw32(t, tensor.Shape{3, 2, 2}, make([]float32, 12)...)
	assert.Panics(t, func() { b.BatchMatMul(x, y) })

	z := raw32(t, tensor.Shape{2, 3, 1}, 1, 2, 3, 4, 5, 6)
	assert.Panics(t, func() { b.BatchMatMul(x, z) })
}

func TestTranspose(t *testing.T) {
	b := New()
	// [1, 2, 3] -> [1, 3, 2]
	x := raw32(t, tensor.Shape{1, 2, 3},
		1, 2, 3,
		4, 5, 6)

	out := b.Transpose(x, 0, 2, 1)
	assert.Equal(t, tensor.Shape{1, 3, 2}, out.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, out.AsFloat32())

	rev := b.Transpose(x)
	assert.Equal(t, tensor.Shape{3, 2, 1}, rev.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, rev.AsFloat32())

	assert.Panics(t, func() { b.Transpose(x, 0, 0, 1) })
}

func TestTranspose_Int64(t *testing.T) {
	b := New()
	r, err := tensor.NewRaw(tensor.Shape{2, 2}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	copy(r.AsInt64(), []int64{1, 2, 3, 4})

	assert.Equal(t, []int64{1, 3, 2, 4}, b.Transpose(r, 1, 0).AsInt64())
}

func TestReshape(t *testing.T) {
	b := New()
	x := raw32(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)

	out := b.Reshape(x, tensor.Shape{3, 2})
	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
	assert.Equal(t, x.AsFloat32(), out.AsFloat32())

	out.AsFloat32()[0] = 100
	assert.Equal(t, float32(1), x.AsFloat32()[0], "reshape must not alias its input")

	assert.Panics(t, func() { b.Reshape(x, tensor.Shape{4, 2}) })
}

func TestExpand(t *testing.T) {
	b := New()
	g := raw32(t, tensor.Shape{2, 2, 1}, 1, 2, 3, 4)

	out := b.Expand(g, tensor.Shape{2, 2, 3})
	assert.Equal(t, []float32{
		1, 1, 1,
		2, 2, 2,
		3, 3, 3,
		4, 4, 4,
	}, out.AsFloat32())

	assert.Panics(t, func() { b.Expand(g, tensor.Shape{2, 3, 3}) })
}

func TestCat(t *testing.T) {
	b := New()
	local := raw32(t, tensor.Shape{2, 1, 2},
		1, 2,
		3, 4)
	global := raw32(t, tensor.Shape{2, 2, 2},
		5, 5, 6, 6,
		7, 7, 8, 8)

	out := b.Cat([]*tensor.RawTensor{local, global}, 1)
	assert.Equal(t, tensor.Shape{2, 3, 2}, out.Shape())
	assert.Equal(t, []float32{
		1, 2, 5, 5, 6, 6,
		3, 4, 7, 7, 8, 8,
	}, out.AsFloat32())

	bad := raw32(t, tensor.Shape{2, 1, 3}, 1, 2, 3, 4, 5, 6)
	assert.Panics(t, func() { b.Cat([]*tensor.RawTensor{local, bad}, 1) })
}

func TestMaxDim(t *testing.T) {
	for name, b := range backends() {
		t.Run(name, func(t *testing.T) {
			// [1, 2, 4]: two channels over four points.
			x := raw32(t, tensor.Shape{1, 2, 4},
				0.1, 0.9, 0.3, 0.9,
				-1, -2, -0.5, -3)

			vals, idx := b.MaxDim(x, 2)
			assert.Equal(t, tensor.Shape{1, 2}, vals.Shape())
			assert.Equal(t, tensor.Shape{1, 2}, idx.Shape())
			assert.Equal(t, []float32{0.9, -0.5}, vals.AsFloat32())
			assert.Equal(t, []int64{1, 2}, idx.AsInt64(), "ties resolve to the first index")
		})
	}
}

func TestMaxDim_LastAxisNegative(t *testing.T) {
	b := New()
	x := raw32(t, tensor.Shape{2, 3}, 1, 5, 2, 7, 0, 7)

	vals, idx := b.MaxDim(x, -1)
	assert.Equal(t, []float32{5, 7}, vals.AsFloat32())
	assert.Equal(t, []int64{1, 0}, idx.AsInt64())
}

func TestChannelMoments(t *testing.T) {
	b := New()
	// Channel 0 sees {1, 3, 5, 7}; channel 1 sees {2, 2, 2, 2}.
	x := raw32(t, tensor.Shape{2, 2, 2},
		1, 3, 2, 2,
		5, 7, 2, 2)

	mean, variance := b.ChannelMoments(x)
	assert.InDeltaSlice(t, []float32{4, 2}, mean.AsFloat32(), 1e-6)
	assert.InDeltaSlice(t, []float32{5, 0}, variance.AsFloat32(), 1e-6)
}

func TestBatchNorm(t *testing.T) {
	b := New()
	x := raw32(t, tensor.Shape{2, 2}, 1, 10, 3, 30)
	mean := raw32(t, tensor.Shape{2}, 2, 20)
	variance := raw32(t, tensor.Shape{2}, 1, 100)
	gamma := raw32(t, tensor.Shape{2}, 1, 2)
	beta := raw32(t, tensor.Shape{2}, 0, 1)

	out := b.BatchNorm(x, mean, variance, gamma, beta, 0)
	assert.InDeltaSlice(t, []float32{-1, -1, 1, 3}, out.AsFloat32(), 1e-6)

	short := raw32(t, tensor.Shape{1}, 0)
	assert.Panics(t, func() { b.BatchNorm(x, short, variance, gamma, beta, 1e-5) })
}

func TestReLU(t *testing.T) {
	b := New()
	x := raw32(t, tensor.Shape{4}, -1, 0, 0.5, 2)
	assert.Equal(t, []float32{0, 0, 0.5, 2}, b.ReLU(x).AsFloat32())
}

func TestDeviceMismatchPanics(t *testing.T) {
	b := New()
	gpu, err := tensor.NewRaw(tensor.Shape{2, 2}, tensor.Float32, tensor.CUDA)
	require.NoError(t, err)
	cpu := raw32(t, tensor.Shape{2, 2}, 1, 2, 3, 4)

	assert.PanicsWithValue(t, "add: tensor on CUDA, backend on CPU", func() { b.Add(cpu, gpu) })
	assert.Panics(t, func() { b.ReLU(gpu) })
}
