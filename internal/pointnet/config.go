// Package pointnet assembles the PointNet architecture from the layers in
// internal/nn.
//
// Components, leaf-first:
//   - SharedMLP: point-wise Conv1D -> BatchNorm1D -> ReLU blocks
//   - AlignmentNet: T-Net predicting a dim x dim alignment matrix
//   - Backbone: two alignment stages, two shared MLPs and max pooling over
//     the point axis, producing global (or local+global) features
//   - ClassificationHead and SegmentationHead
//
// Point batches are channel-first: [batch, dim, points]. Component Forward
// methods validate the input once and return typed errors; below that
// boundary the nn layers panic on misuse.
package pointnet

import (
	"math/rand"
)

// Defaults used by DefaultConfig.
const (
	DefaultNumPoints         = 2500
	DefaultNumGlobalFeatures = 1024
	DefaultInputDim          = 3
	DefaultNumClasses        = 2
	DefaultDropoutRate       = 0.3
	DefaultEpsilon           = 1e-5
	DefaultMomentum          = 0.1
)

// Fixed channel widths of the architecture.
const (
	localFeatureChannels = 64
	alignmentFeatures    = 1024
)

// Config holds the construction-time sizes and hyperparameters of every
// PointNet component.
type Config struct {
	// NumPoints is the number of points per sample. Pooling is bound to this
	// width; inputs with a different point count are rejected.
	NumPoints int

	// NumGlobalFeatures is G, the length of the global feature vector.
	NumGlobalFeatures int

	// InputDim is the number of coordinates per point.
	InputDim int

	// NumClasses is K for the classification head and M (labels per point)
	// for the segmentation head.
	NumClasses int

	// DropoutRate is the drop probability before the final classifier layer.
	DropoutRate float64

	// Epsilon and Momentum configure every batch normalization layer.
	Epsilon  float32
	Momentum float32

	// Seed drives weight initialization and dropout masks.
	Seed int64
}

// DefaultConfig returns the standard PointNet configuration: 2500 points,
// 1024 global features, 3D input and 2 classes.
func DefaultConfig() Config {
	return Config{
		NumPoints:         DefaultNumPoints,
		NumGlobalFeatures: DefaultNumGlobalFeatures,
		InputDim:          DefaultInputDim,
		NumClasses:        DefaultNumClasses,
		DropoutRate:       DefaultDropoutRate,
		Epsilon:           DefaultEpsilon,
		Momentum:          DefaultMomentum,
	}
}

// Validate checks every field and returns a *ConfigError for the first
// invalid one.
func (c Config) Validate() error {
	switch {
	case c.NumPoints <= 0:
		return &ConfigError{Field: "NumPoints", Value: c.NumPoints, Reason: "must be positive"}
	case c.NumGlobalFeatures <= 0:
		return &ConfigError{Field: "NumGlobalFeatures", Value: c.NumGlobalFeatures, Reason: "must be positive"}
	case c.InputDim <= 0:
		return &ConfigError{Field: "InputDim", Value: c.InputDim, Reason: "must be positive"}
	case c.NumClasses <= 0:
		return &ConfigError{Field: "NumClasses", Value: c.NumClasses, Reason: "must be positive"}
	case c.DropoutRate < 0 || c.DropoutRate >= 1:
		return &ConfigError{Field: "DropoutRate", Value: c.DropoutRate, Reason: "must be in [0, 1)"}
	case !(c.Epsilon > 0):
		return &ConfigError{Field: "Epsilon", Value: c.Epsilon, Reason: "must be positive"}
	case !(c.Momentum > 0) || c.Momentum > 1:
		return &ConfigError{Field: "Momentum", Value: c.Momentum, Reason: "must be in (0, 1]"}
	}
	return nil
}

func (c Config) newRand() *rand.Rand {
	return rand.New(rand.NewSource(c.Seed)) //nolint:gosec // Intentional deterministic seed for reproducibility
}
