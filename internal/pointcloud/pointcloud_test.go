package pointcloud

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/pointnet/internal/backend/cpu"
)

func TestPrimitives(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, p := range Sphere(200, rng) {
		require.InDelta(t, 1, p.Norm(), 1e-9)
	}

	for _, p := range Cube(200, rng) {
		m := math.Max(math.Abs(p.X), math.Max(math.Abs(p.Y), math.Abs(p.Z)))
		require.InDelta(t, 1, m, 1e-12, "cube point %v must lie on a face", p)
	}

	for _, p := range Cylinder(200, rng) {
		require.InDelta(t, 1, math.Hypot(p.X, p.Y), 1e-9)
		require.LessOrEqual(t, math.Abs(p.Z), 1.0)
	}
}

func TestGenerate(t *testing.T) {
	for _, k := range Kinds {
		c := Generate(k, 32, rand.New(rand.NewSource(2)))
		assert.Len(t, c, 32, k.String())
	}
	assert.Equal(t, []string{"sphere", "cube", "cylinder"}, []string{KindSphere.String(), KindCube.String(), KindCylinder.String()})
	assert.Panics(t, func() { Generate(Kind(9), 1, rand.New(rand.NewSource(1))) })
}

func TestNormalize(t *testing.T) {
	c := Cloud{{X: 1, Y: 1, Z: 1}, {X: 3, Y: 1, Z: 1}, {X: 2, Y: 4, Z: 1}}

	n := c.Normalize()

	centroid := n.Centroid()
	assert.InDelta(t, 0, centroid.Norm(), 1e-12)

	var radius float64
	for _, p := range n {
		radius = math.Max(radius, p.Norm())
	}
	assert.InDelta(t, 1, radius, 1e-12)

	// Original is untouched.
	assert.Equal(t, r3.Vector{X: 1, Y: 1, Z: 1}, c[0])

	single := Cloud{{X: 5, Y: 5, Z: 5}}.Normalize()
	assert.Equal(t, Cloud{{}}, single)
}

func TestRotate(t *testing.T) {
	c := Cloud{{X: 1}, {Y: 2}, {X: 1, Y: 1, Z: 1}}

	r := c.Rotate(r3.Vector{Z: 1}, math.Pi/2)

	assert.InDelta(t, 0, r[0].Sub(r3.Vector{Y: 1}).Norm(), 1e-12)
	assert.InDelta(t, 0, r[1].Sub(r3.Vector{X: -2}).Norm(), 1e-12)
	assert.InDelta(t, 0, r[2].Sub(r3.Vector{X: -1, Y: 1, Z: 1}).Norm(), 1e-12)

	// Rotation preserves norms.
	rng := rand.New(rand.NewSource(3))
	s := Cube(50, rng)
	rs := s.Rotate(r3.Vector{X: 1, Y: -2, Z: 0.5}, 1.3)
	for i := range s {
		require.InDelta(t, s[i].Norm(), rs[i].Norm(), 1e-12)
	}

	assert.Equal(t, c, c.Rotate(r3.Vector{}, 1))
}

func TestPermute(t *testing.T) {
	c := Cloud{{X: 0}, {X: 1}, {X: 2}}

	p, err := c.Permute([]int{2, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, Cloud{{X: 2}, {X: 0}, {X: 1}}, p)

	_, err = c.Permute([]int{0, 0, 1})
	assert.Error(t, err)
	_, err = c.Permute([]int{0, 1})
	assert.Error(t, err)
	_, err = c.Permute([]int{0, 1, 3})
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	backend := cpu.New()
	a := Cloud{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}}
	b := Cloud{{X: -1, Y: -2, Z: -3}, {X: 0, Y: 0, Z: 1}}

	x, err := Batch([]Cloud{a, b}, backend)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3, 2}, []int(x.Shape()))
	assert.Equal(t, []float32{
		1, 4, 2, 5, 3, 6,
		-1, 0, -2, 0, -3, 1,
	}, x.Data())

	_, err = Batch([]Cloud{a, {{X: 1}}}, backend)
	assert.ErrorIs(t, err, ErrCloudSize)
	_, err = Batch[*cpu.CPUBackend](nil, backend)
	assert.ErrorIs(t, err, ErrCloudSize)
	_, err = Batch([]Cloud{{}}, backend)
	assert.ErrorIs(t, err, ErrCloudSize)
}
