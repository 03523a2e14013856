// Package pointcloud produces point sets for driving PointNet models:
// synthetic primitive surfaces, normalization, rigid rotation, point
// permutation and packing into [batch, 3, points] tensors.
package pointcloud

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/golang/geo/r3"

	"github.com/born-ml/pointnet/internal/tensor"
)

// ErrCloudSize is returned when clouds in a batch differ in point count or
// are empty.
var ErrCloudSize = errors.New("point cloud size mismatch")

// Cloud is an ordered set of 3D points.
type Cloud []r3.Vector

// Kind identifies a synthetic primitive surface.
type Kind int

// Supported primitives.
const (
	KindSphere Kind = iota
	KindCube
	KindCylinder
)

// Kinds lists every primitive in label order.
var Kinds = []Kind{KindSphere, KindCube, KindCylinder}

// String returns the lowercase primitive name.
func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindCube:
		return "cube"
	case KindCylinder:
		return "cylinder"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Generate samples n points from the surface of the given primitive.
func Generate(k Kind, n int, rng *rand.Rand) Cloud {
	switch k {
	case KindSphere:
		return Sphere(n, rng)
	case KindCube:
		return Cube(n, rng)
	case KindCylinder:
		return Cylinder(n, rng)
	default:
		panic(fmt.Sprintf("pointcloud: unknown kind %d", int(k)))
	}
}

// Sphere samples n points uniformly from the unit sphere.
func Sphere(n int, rng *rand.Rand) Cloud {
	c := make(Cloud, n)
	for i := range c {
		v := r3.Vector{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		for v.Norm2() == 0 {
			v = r3.Vector{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		}
		c[i] = v.Normalize()
	}
	return c
}

// Cube samples n points uniformly from the surface of the cube [-1, 1]³.
func Cube(n int, rng *rand.Rand) Cloud {
	c := make(Cloud, n)
	for i := range c {
		u, v := rng.Float64()*2-1, rng.Float64()*2-1
		side := 1.0
		if rng.Intn(2) == 0 {
			side = -1
		}
		switch rng.Intn(3) {
		case 0:
			c[i] = r3.Vector{X: side, Y: u, Z: v}
		case 1:
			c[i] = r3.Vector{X: u, Y: side, Z: v}
		default:
			c[i] = r3.Vector{X: u, Y: v, Z: side}
		}
	}
	return c
}

// Cylinder samples n points from the lateral surface of a unit-radius
// cylinder spanning z in [-1, 1].
func Cylinder(n int, rng *rand.Rand) Cloud {
	c := make(Cloud, n)
	for i := range c {
		theta := rng.Float64() * 2 * math.Pi
		c[i] = r3.Vector{X: math.Cos(theta), Y: math.Sin(theta), Z: rng.Float64()*2 - 1}
	}
	return c
}

// Centroid returns the mean point. The centroid of an empty cloud is the
// origin.
func (c Cloud) Centroid() r3.Vector {
	var sum r3.Vector
	if len(c) == 0 {
		return sum
	}
	for _, p := range c {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(c)))
}

// Normalize returns a copy centered on its centroid and scaled so the
// farthest point lies on the unit sphere.
func (c Cloud) Normalize() Cloud {
	center := c.Centroid()
	out := make(Cloud, len(c))
	var radius float64
	for i, p := range c {
		out[i] = p.Sub(center)
		radius = math.Max(radius, out[i].Norm())
	}
	if radius == 0 {
		return out
	}
	for i := range out {
		out[i] = out[i].Mul(1 / radius)
	}
	return out
}

// Rotate returns a copy rotated by angle radians around axis (Rodrigues'
// formula). A zero axis leaves the points unchanged.
func (c Cloud) Rotate(axis r3.Vector, angle float64) Cloud {
	out := make(Cloud, len(c))
	if axis.Norm2() == 0 {
		copy(out, c)
		return out
	}

	k := axis.Normalize()
	cos, sin := math.Cos(angle), math.Sin(angle)
	for i, v := range c {
		out[i] = v.Mul(cos).
			Add(k.Cross(v).Mul(sin)).
			Add(k.Mul(k.Dot(v) * (1 - cos)))
	}
	return out
}

// Permute returns a copy with out[i] = c[perm[i]].
func (c Cloud) Permute(perm []int) (Cloud, error) {
	if len(perm) != len(c) {
		return nil, fmt.Errorf("permutation of length %d for %d points", len(perm), len(c))
	}
	seen := make([]bool, len(c))
	out := make(Cloud, len(c))
	for i, j := range perm {
		if j < 0 || j >= len(c) || seen[j] {
			return nil, fmt.Errorf("invalid permutation: index %d at position %d", j, i)
		}
		seen[j] = true
		out[i] = c[j]
	}
	return out, nil
}

// Batch packs equally sized clouds into a channel-first [len(clouds), 3, N]
// tensor on the given backend.
func Batch[B tensor.Backend](clouds []Cloud, backend B) (*tensor.Tensor[float32, B], error) {
	if len(clouds) == 0 {
		return nil, fmt.Errorf("empty batch: %w", ErrCloudSize)
	}
	n := len(clouds[0])
	if n == 0 {
		return nil, fmt.Errorf("cloud 0 has no points: %w", ErrCloudSize)
	}
	for i, c := range clouds {
		if len(c) != n {
			return nil, fmt.Errorf("cloud %d has %d points, want %d: %w", i, len(c), n, ErrCloudSize)
		}
	}

	data := make([]float32, len(clouds)*3*n)
	for b, c := range clouds {
		xs := data[(b*3+0)*n : (b*3+1)*n]
		ys := data[(b*3+1)*n : (b*3+2)*n]
		zs := data[(b*3+2)*n : (b*3+3)*n]
		for i, p := range c {
			xs[i], ys[i], zs[i] = float32(p.X), float32(p.Y), float32(p.Z)
		}
	}
	return tensor.FromSlice(data, tensor.Shape{len(clouds), 3, n}, backend)
}
