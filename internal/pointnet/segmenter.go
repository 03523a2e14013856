package pointnet

import (
	"fmt"

	"github.com/born-ml/pointnet/internal/nn"
	"github.com/born-ml/pointnet/internal/tensor"
)

// SegmentationHead predicts one of cfg.NumClasses labels per point.
//
// Architecture:
//
//	Backbone (local) -> [B, 64+G, N]
//	-> SharedMLP 64+G -> 512 -> 256 -> 128 -> M (plain final projection)
//	-> transpose -> logits [B, N, M]
type SegmentationHead[B tensor.Backend] struct {
	cfg Config

	backbone *Backbone[B]
	mlp      *SharedMLP[B]

	backend B
}

// NewSegmentationHead creates a per-point classifier for cfg.NumClasses
// labels.
func NewSegmentationHead[B tensor.Backend](cfg Config, backend B) (*SegmentationHead[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := cfg.newRand()
	channels := []int{localFeatureChannels + cfg.NumGlobalFeatures, 512, 256, 128, cfg.NumClasses}
	return &SegmentationHead[B]{
		cfg:      cfg,
		backbone: newBackbone(cfg, true, rng, backend),
		mlp:      newSharedMLP(channels, true, cfg, rng, backend),
		backend:  backend,
	}, nil
}

// Forward computes per-point logits [B, N, M] for x [B, InputDim, NumPoints].
func (h *SegmentationHead[B]) Forward(x *tensor.Tensor[float32, B], mode nn.Mode) (*HeadOutput[B], error) {
	if err := validateInput("SegmentationHead", x, h.cfg.InputDim, h.cfg.NumPoints, mode, h.backend); err != nil {
		return nil, err
	}

	features := h.backbone.forward(x, mode)
	logits := h.mlp.Forward(features.Features, mode) // [B, M, N]

	return &HeadOutput[B]{
		Logits:           logits.Transpose(0, 2, 1),
		CriticalIndices:  features.CriticalIndices,
		FeatureTransform: features.FeatureTransform,
	}, nil
}

// Predict runs an Eval-mode forward pass and returns the arg-max label of
// every point, shape [B, N].
func (h *SegmentationHead[B]) Predict(x *tensor.Tensor[float32, B]) (*tensor.Tensor[int64, B], error) {
	out, err := h.Forward(x, nn.Eval)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	_, labels := out.Logits.MaxDim(2)
	return labels, nil
}

// Backbone returns the feature extractor.
func (h *SegmentationHead[B]) Backbone() *Backbone[B] {
	return h.backbone
}

// Parameters returns all trainable parameters, backbone first.
func (h *SegmentationHead[B]) Parameters() []*nn.Parameter[B] {
	return append(h.backbone.Parameters(), h.mlp.Parameters()...)
}

// Buffers returns the batch normalization running statistics.
func (h *SegmentationHead[B]) Buffers() []*nn.Buffer[B] {
	return append(h.backbone.Buffers(), h.mlp.Buffers()...)
}

// String returns a string representation of the head.
func (h *SegmentationHead[B]) String() string {
	return fmt.Sprintf("SegmentationHead(points=%d, global=%d, classes=%d)", h.cfg.NumPoints, h.cfg.NumGlobalFeatures, h.cfg.NumClasses)
}
