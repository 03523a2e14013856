package pointnet

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/pointnet/internal/nn"
	"github.com/born-ml/pointnet/internal/tensor"
)

// BackboneOutput is the result of a Backbone forward pass.
type BackboneOutput[B tensor.Backend] struct {
	// Features is [B, G] in global mode and [B, 64+G, N] in local mode, where
	// the first 64 channels are the per-point local features.
	Features *tensor.Tensor[float32, B]

	// CriticalIndices is [B, G]: for every global channel, the index of the
	// point that produced its maximum.
	CriticalIndices *tensor.Tensor[int64, B]

	// FeatureTransform is the [B, 64, 64] feature alignment matrix, for an
	// orthogonality regularizer.
	FeatureTransform *tensor.Tensor[float32, B]
}

// Backbone is the PointNet feature extractor.
//
// Pipeline for x [B, dim, N]:
//  1. A1 = AlignmentNet(dim)(x); x = (xᵀ·A1)ᵀ
//  2. SharedMLP dim -> 64 -> 64
//  3. A2 = AlignmentNet(64)(f); f = (fᵀ·A2)ᵀ (kept as local features)
//  4. SharedMLP 64 -> 64 -> 128 -> G
//  5. max over N -> global [B, G] and critical indices [B, G]
//  6. local mode only: concat [local; global broadcast over N]
type Backbone[B tensor.Backend] struct {
	cfg           Config
	localFeatures bool

	inputAlign   *AlignmentNet[B]
	mlp1         *SharedMLP[B]
	featureAlign *AlignmentNet[B]
	mlp2         *SharedMLP[B]
	pool         *nn.MaxPool1D[B]

	backend B
}

// NewBackbone creates a backbone. With localFeatures the output is the
// per-point concatenation of local and global features.
func NewBackbone[B tensor.Backend](cfg Config, localFeatures bool, backend B) (*Backbone[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newBackbone(cfg, localFeatures, cfg.newRand(), backend), nil
}

func newBackbone[B tensor.Backend](cfg Config, localFeatures bool, rng *rand.Rand, backend B) *Backbone[B] {
	return &Backbone[B]{
		cfg:           cfg,
		localFeatures: localFeatures,
		inputAlign:    newAlignmentNet(cfg.InputDim, cfg, rng, backend),
		mlp1:          newSharedMLP([]int{cfg.InputDim, 64, localFeatureChannels}, false, cfg, rng, backend),
		featureAlign:  newAlignmentNet(localFeatureChannels, cfg, rng, backend),
		mlp2:          newSharedMLP([]int{localFeatureChannels, 64, 128, cfg.NumGlobalFeatures}, false, cfg, rng, backend),
		pool:          nn.NewMaxPool1D[B](cfg.NumPoints),
		backend:       backend,
	}
}

// Forward runs the backbone on x [B, InputDim, NumPoints].
func (b *Backbone[B]) Forward(x *tensor.Tensor[float32, B], mode nn.Mode) (*BackboneOutput[B], error) {
	if err := validateInput("Backbone", x, b.cfg.InputDim, b.cfg.NumPoints, mode, b.backend); err != nil {
		return nil, err
	}
	return b.forward(x, mode), nil
}

func (b *Backbone[B]) forward(x *tensor.Tensor[float32, B], mode nn.Mode) *BackboneOutput[B] {
	batch := x.Shape()[0]

	a1 := b.inputAlign.transform(x, mode)
	h := apply(x, a1)
	h = b.mlp1.Forward(h, mode)

	a2 := b.featureAlign.transform(h, mode)
	local := apply(h, a2)

	h = b.mlp2.Forward(local, mode)
	global, indices := b.pool.ForwardWithIndices(h)

	out := &BackboneOutput[B]{
		Features:         global,
		CriticalIndices:  indices,
		FeatureTransform: a2,
	}
	if b.localFeatures {
		g, n := b.cfg.NumGlobalFeatures, b.cfg.NumPoints
		expanded := global.Reshape(batch, g, 1).Expand(tensor.Shape{batch, g, n})
		out.Features = tensor.Cat([]*tensor.Tensor[float32, B]{local, expanded}, 1)
	}
	return out
}

// InputAlignment returns the T-Net applied to raw coordinates. Its matrix is
// not part of BackboneOutput; call its Forward to obtain it.
func (b *Backbone[B]) InputAlignment() *AlignmentNet[B] {
	return b.inputAlign
}

// FeatureAlignment returns the T-Net applied to the 64-channel features.
func (b *Backbone[B]) FeatureAlignment() *AlignmentNet[B] {
	return b.featureAlign
}

// LocalFeatures reports whether Forward returns per-point features.
func (b *Backbone[B]) LocalFeatures() bool {
	return b.localFeatures
}

// OutChannels returns the channel count of Features: G, or 64+G in local
// mode.
func (b *Backbone[B]) OutChannels() int {
	if b.localFeatures {
		return localFeatureChannels + b.cfg.NumGlobalFeatures
	}
	return b.cfg.NumGlobalFeatures
}

// Parameters returns all trainable parameters.
func (b *Backbone[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, b.inputAlign.Parameters()...)
	params = append(params, b.mlp1.Parameters()...)
	params = append(params, b.featureAlign.Parameters()...)
	return append(params, b.mlp2.Parameters()...)
}

// Buffers returns the batch normalization running statistics.
func (b *Backbone[B]) Buffers() []*nn.Buffer[B] {
	var buffers []*nn.Buffer[B]
	buffers = append(buffers, b.inputAlign.Buffers()...)
	buffers = append(buffers, b.mlp1.Buffers()...)
	buffers = append(buffers, b.featureAlign.Buffers()...)
	return append(buffers, b.mlp2.Buffers()...)
}

// String returns a string representation of the backbone.
func (b *Backbone[B]) String() string {
	return fmt.Sprintf("Backbone(points=%d, global=%d, local=%t)", b.cfg.NumPoints, b.cfg.NumGlobalFeatures, b.localFeatures)
}
