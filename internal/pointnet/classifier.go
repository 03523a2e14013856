package pointnet

import (
	"fmt"

	"github.com/born-ml/pointnet/internal/nn"
	"github.com/born-ml/pointnet/internal/tensor"
)

// HeadOutput is the result of a task head forward pass.
type HeadOutput[B tensor.Backend] struct {
	// Logits is [B, K] for classification and [B, N, M] for segmentation.
	Logits *tensor.Tensor[float32, B]

	// CriticalIndices and FeatureTransform are passed through from the
	// backbone.
	CriticalIndices  *tensor.Tensor[int64, B]
	FeatureTransform *tensor.Tensor[float32, B]
}

// ClassificationHead predicts one of cfg.NumClasses labels per point cloud.
//
// Architecture:
//
//	Backbone (global) -> [B, G]
//	-> Linear G->512 -> BN -> ReLU -> Linear 512->256 -> BN -> ReLU
//	-> Dropout(p) -> Linear 256->K -> logits [B, K]
type ClassificationHead[B tensor.Backend] struct {
	cfg Config

	backbone *Backbone[B]
	fc       *nn.Sequential[B]
	dropout  *nn.Dropout[B]
	out      *nn.Linear[B]

	backend B
}

// NewClassificationHead creates a classifier for cfg.NumClasses classes.
func NewClassificationHead[B tensor.Backend](cfg Config, backend B) (*ClassificationHead[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := cfg.newRand()
	dense := func(in, out int) nn.Module[B] {
		return nn.NewLinear(in, out, rng, backend)
	}
	return &ClassificationHead[B]{
		cfg:      cfg,
		backbone: newBackbone(cfg, false, rng, backend),
		fc:       buildMLP([]int{cfg.NumGlobalFeatures, 512, 256}, false, dense, cfg, backend),
		dropout:  nn.NewDropout[B](cfg.DropoutRate, rng),
		out:      nn.NewLinear(256, cfg.NumClasses, rng, backend),
		backend:  backend,
	}, nil
}

// Forward computes raw class logits [B, K] for x [B, InputDim, NumPoints].
func (h *ClassificationHead[B]) Forward(x *tensor.Tensor[float32, B], mode nn.Mode) (*HeadOutput[B], error) {
	if err := validateInput("ClassificationHead", x, h.cfg.InputDim, h.cfg.NumPoints, mode, h.backend); err != nil {
		return nil, err
	}

	features := h.backbone.forward(x, mode)

	z := h.fc.Forward(features.Features, mode)
	z = h.dropout.Forward(z, mode)
	logits := h.out.Forward(z, mode)

	return &HeadOutput[B]{
		Logits:           logits,
		CriticalIndices:  features.CriticalIndices,
		FeatureTransform: features.FeatureTransform,
	}, nil
}

// Predict runs an Eval-mode forward pass and returns the arg-max class of
// every sample, shape [B].
func (h *ClassificationHead[B]) Predict(x *tensor.Tensor[float32, B]) (*tensor.Tensor[int64, B], error) {
	out, err := h.Forward(x, nn.Eval)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	_, classes := out.Logits.MaxDim(1)
	return classes, nil
}

// Backbone returns the feature extractor.
func (h *ClassificationHead[B]) Backbone() *Backbone[B] {
	return h.backbone
}

// Parameters returns all trainable parameters, backbone first.
func (h *ClassificationHead[B]) Parameters() []*nn.Parameter[B] {
	params := h.backbone.Parameters()
	params = append(params, h.fc.Parameters()...)
	return append(params, h.out.Parameters()...)
}

// Buffers returns the batch normalization running statistics.
func (h *ClassificationHead[B]) Buffers() []*nn.Buffer[B] {
	return append(h.backbone.Buffers(), h.fc.Buffers()...)
}

// String returns a string representation of the head.
func (h *ClassificationHead[B]) String() string {
	return fmt.Sprintf("ClassificationHead(points=%d, global=%d, classes=%d)", h.cfg.NumPoints, h.cfg.NumGlobalFeatures, h.cfg.NumClasses)
}
