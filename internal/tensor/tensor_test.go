package tensor_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/pointnet/internal/backend/cpu"
	"github.com/born-ml/pointnet/internal/tensor"
)

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, x.Shape())
	assert.Equal(t, float32(6), x.At(1, 2))
	assert.Equal(t, tensor.CPU, x.Device())
	assert.Equal(t, "Tensor[float32][2 3] on CPU", x.String())

	x.Set(10, 0, 1)
	assert.Equal(t, float32(10), x.Data()[1])
	assert.Panics(t, func() { x.At(2, 0) })
	assert.Panics(t, func() { x.At(0) })

	_, err = tensor.FromSlice([]float32{1, 2}, tensor.Shape{3}, backend)
	assert.Error(t, err)
}

func TestCreation(t *testing.T) {
	backend := cpu.New()

	eye := tensor.Eye[float32](3, backend)
	assert.Equal(t, []float32{1, 0, 0, 0, 1, 0, 0, 0, 1}, eye.Data())

	ones := tensor.Ones[int64](tensor.Shape{2}, backend)
	assert.Equal(t, []int64{1, 1}, ones.Data())

	full := tensor.Full[float32](tensor.Shape{2, 2}, 0.5, backend)
	assert.Equal(t, []float32{0.5, 0.5, 0.5, 0.5}, full.Data())

	rng := rand.New(rand.NewSource(1))
	r := tensor.Rand(tensor.Shape{4, 3, 16}, rng, backend)
	for _, v := range r.Data() {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Less(t, v, float32(1))
	}

	// Same seed, same draw.
	a := tensor.Randn(tensor.Shape{8}, rand.New(rand.NewSource(7)), backend)
	b := tensor.Randn(tensor.Shape{8}, rand.New(rand.NewSource(7)), backend)
	assert.Equal(t, a.Data(), b.Data())
}

func TestAlignmentProduct(t *testing.T) {
	backend := cpu.New()

	// (x^T A)^T with A = identity + permutation of coordinates.
	x, err := tensor.FromSlice([]float32{
		1, 2, // x of both points
		3, 4, // y
		5, 6, // z
	}, tensor.Shape{1, 3, 2}, backend)
	require.NoError(t, err)

	swap, err := tensor.FromSlice([]float32{
		0, 1, 0,
		1, 0, 0,
		0, 0, 1,
	}, tensor.Shape{1, 3, 3}, backend)
	require.NoError(t, err)

	out := x.Transpose(0, 2, 1).BatchMatMul(swap).Transpose(0, 2, 1)
	assert.Equal(t, tensor.Shape{1, 3, 2}, out.Shape())
	assert.Equal(t, []float32{3, 4, 1, 2, 5, 6}, out.Data(), "x and y swapped")
}

func TestGlobalBroadcastConcat(t *testing.T) {
	backend := cpu.New()

	local, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 1, 3}, backend)
	require.NoError(t, err)
	global, err := tensor.FromSlice([]float32{9, 8}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)

	g := global.Reshape(1, 2, 1).Expand(tensor.Shape{1, 2, 3})
	combined := tensor.Cat([]*tensor.Tensor[float32, *cpu.CPUBackend]{local, g}, 1)

	want := []float32{
		1, 2, 3,
		9, 9, 9,
		8, 8, 8,
	}
	if diff := cmp.Diff(want, combined.Data(), cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("combined features mismatch (-want +got):\n%s", diff)
	}
}

func TestMaxDim_Indices(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{
		0.2, 0.7, 0.1,
		0.5, 0.4, 0.6,
	}, tensor.Shape{1, 2, 3}, backend)
	require.NoError(t, err)

	vals, idx := x.MaxDim(2)
	assert.Equal(t, []float32{0.7, 0.6}, vals.Data())
	assert.Equal(t, []int64{1, 2}, idx.Data())
	assert.Equal(t, tensor.Int64, idx.DType())
}

func TestArithmetic(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	assert.Equal(t, []float32{2, 4, 6, 8}, a.Add(a).Data())
	assert.Equal(t, []float32{1, 4, 9, 16}, a.Mul(a).Data())
	assert.Equal(t, []float32{2, 4, 6, 8}, a.MulScalar(2).Data())
	assert.Equal(t, []float32{7, 10, 15, 22}, a.MatMul(a).Data())
	assert.Equal(t, []float32{1, 3, 2, 4}, a.T().Data())

	c := a.Clone()
	c.Data()[0] = 100
	assert.Equal(t, float32(1), a.Data()[0])
}
