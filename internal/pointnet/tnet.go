package pointnet

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/pointnet/internal/nn"
	"github.com/born-ml/pointnet/internal/tensor"
)

// AlignmentNet (T-Net) predicts a dim x dim alignment matrix per sample.
//
// Architecture:
//
//	[B, dim, N] -> SharedMLP(dim, 64, 128, 1024) -> max over N -> [B, 1024]
//	            -> Linear 1024->512 -> BN -> ReLU -> Linear 512->256 -> BN -> ReLU
//	            -> Linear 256->dim*dim -> reshape [B, dim, dim] -> + I
//
// The identity is added after the learned correction, so a zero output layer
// yields exactly the identity transform.
type AlignmentNet[B tensor.Backend] struct {
	dim       int
	numPoints int

	features *SharedMLP[B]
	pool     *nn.MaxPool1D[B]
	fc       *nn.Sequential[B]
	out      *nn.Linear[B]
	identity *tensor.Tensor[float32, B] // [dim, dim], broadcast over batch

	backend B
}

// NewAlignmentNet creates a T-Net for dim-channel inputs of cfg.NumPoints
// points.
func NewAlignmentNet[B tensor.Backend](dim int, cfg Config, backend B) (*AlignmentNet[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dim <= 0 {
		return nil, &ConfigError{Field: "dim", Value: dim, Reason: "must be positive"}
	}
	return newAlignmentNet(dim, cfg, cfg.newRand(), backend), nil
}

func newAlignmentNet[B tensor.Backend](dim int, cfg Config, rng *rand.Rand, backend B) *AlignmentNet[B] {
	dense := func(in, out int) nn.Module[B] {
		return nn.NewLinear(in, out, rng, backend)
	}
	return &AlignmentNet[B]{
		dim:       dim,
		numPoints: cfg.NumPoints,
		features:  newSharedMLP([]int{dim, 64, 128, alignmentFeatures}, false, cfg, rng, backend),
		pool:      nn.NewMaxPool1D[B](cfg.NumPoints),
		fc:        buildMLP([]int{alignmentFeatures, 512, 256}, false, dense, cfg, backend),
		out:       nn.NewLinear(256, dim*dim, rng, backend),
		identity:  tensor.Eye[float32](dim, backend),
		backend:   backend,
	}
}

// Forward computes the [B, dim, dim] alignment matrices for x [B, dim, N].
//
// Returns a *ShapeError for a wrong rank, channel count or point count, a
// *DeviceError when x is not on the backend's device and ErrBatchTooSmall
// for a single-sample batch in Train mode.
func (t *AlignmentNet[B]) Forward(x *tensor.Tensor[float32, B], mode nn.Mode) (*tensor.Tensor[float32, B], error) {
	if err := validateInput("AlignmentNet", x, t.dim, t.numPoints, mode, t.backend); err != nil {
		return nil, err
	}
	return t.transform(x, mode), nil
}

func (t *AlignmentNet[B]) transform(x *tensor.Tensor[float32, B], mode nn.Mode) *tensor.Tensor[float32, B] {
	batch := x.Shape()[0]

	h := t.features.Forward(x, mode)
	h = t.pool.Forward(h, mode)
	h = t.fc.Forward(h, mode)
	h = t.out.Forward(h, mode)

	return h.Reshape(batch, t.dim, t.dim).Add(t.identity)
}

// apply re-orients x [B, C, N] with the alignment matrices a [B, C, C],
// computing (xᵀ·a)ᵀ as aᵀ·x.
func apply[B tensor.Backend](x, a *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return a.Transpose(0, 2, 1).BatchMatMul(x)
}

// OutputLayer returns the final Linear layer producing the dim*dim
// correction.
func (t *AlignmentNet[B]) OutputLayer() *nn.Linear[B] {
	return t.out
}

// Dim returns the size of the predicted matrix.
func (t *AlignmentNet[B]) Dim() int {
	return t.dim
}

// Parameters returns all trainable parameters.
func (t *AlignmentNet[B]) Parameters() []*nn.Parameter[B] {
	params := t.features.Parameters()
	params = append(params, t.fc.Parameters()...)
	return append(params, t.out.Parameters()...)
}

// Buffers returns the batch normalization running statistics.
func (t *AlignmentNet[B]) Buffers() []*nn.Buffer[B] {
	return append(t.features.Buffers(), t.fc.Buffers()...)
}

// String returns a string representation of the network.
func (t *AlignmentNet[B]) String() string {
	return fmt.Sprintf("AlignmentNet(dim=%d, points=%d)", t.dim, t.numPoints)
}
