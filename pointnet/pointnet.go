// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package pointnet provides PointNet models for classifying and segmenting
// unordered point clouds.
//
// # Overview
//
// Components:
//   - AlignmentNet: T-Net predicting a dim x dim alignment matrix
//   - SharedMLP: point-wise Conv1D -> BatchNorm1D -> ReLU blocks
//   - Backbone: alignment, shared MLPs and max pooling over points
//   - ClassificationHead: logits [B, K] per cloud
//   - SegmentationHead: logits [B, N, M] per point
//
// Inputs are channel-first point batches [B, InputDim, NumPoints]. The number
// of points is fixed at construction; mismatched inputs are rejected with a
// *ShapeError.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/pointnet/backend/cpu"
//	    "github.com/born-ml/pointnet/nn"
//	    "github.com/born-ml/pointnet/pointnet"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    cfg := pointnet.DefaultConfig()
//	    cfg.NumClasses = 40
//
//	    head, err := pointnet.NewClassificationHead(cfg, backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    out, err := head.Forward(points, nn.Train)
//	    // out.Logits [B, 40], out.CriticalIndices [B, 1024],
//	    // out.FeatureTransform [B, 64, 64]
//	}
//
// # Errors
//
// Constructors return *ConfigError (ErrInvalidConfig). Forward returns
// *ShapeError (ErrShapeMismatch), *DeviceError (ErrDeviceMismatch) or
// ErrBatchTooSmall for single-sample batches in Train mode.
package pointnet

import (
	"github.com/born-ml/pointnet/internal/pointnet"
	"github.com/born-ml/pointnet/internal/tensor"
)

// Config holds the construction-time sizes and hyperparameters.
type Config = pointnet.Config

// DefaultConfig returns the standard configuration: 2500 points, 1024 global
// features, 3D input, 2 classes, dropout 0.3.
func DefaultConfig() Config {
	return pointnet.DefaultConfig()
}

// Errors.
var (
	ErrInvalidConfig  = pointnet.ErrInvalidConfig
	ErrShapeMismatch  = pointnet.ErrShapeMismatch
	ErrDeviceMismatch = pointnet.ErrDeviceMismatch
	ErrBatchTooSmall  = pointnet.ErrBatchTooSmall
)

// ConfigError reports an invalid construction parameter.
type ConfigError = pointnet.ConfigError

// ShapeError reports an input of the wrong shape.
type ShapeError = pointnet.ShapeError

// DeviceError reports an input on the wrong device.
type DeviceError = pointnet.DeviceError

// AlignmentNet is the T-Net.
type AlignmentNet[B tensor.Backend] = pointnet.AlignmentNet[B]

// NewAlignmentNet creates a T-Net predicting dim x dim matrices.
//
// Example:
//
//	tnet, err := pointnet.NewAlignmentNet(3, cfg, backend)
//	a, err := tnet.Forward(points, nn.Eval) // [B, 3, N] -> [B, 3, 3]
func NewAlignmentNet[B tensor.Backend](dim int, cfg Config, backend B) (*AlignmentNet[B], error) {
	return pointnet.NewAlignmentNet(dim, cfg, backend)
}

// SharedMLP is a stack of point-wise Conv1D -> BatchNorm1D -> ReLU blocks.
type SharedMLP[B tensor.Backend] = pointnet.SharedMLP[B]

// NewSharedMLP creates a shared MLP over the given channel widths.
func NewSharedMLP[B tensor.Backend](channels []int, plainOutput bool, cfg Config, backend B) (*SharedMLP[B], error) {
	return pointnet.NewSharedMLP(channels, plainOutput, cfg, backend)
}

// Backbone is the PointNet feature extractor.
type Backbone[B tensor.Backend] = pointnet.Backbone[B]

// BackboneOutput holds features, critical indices and the feature transform.
type BackboneOutput[B tensor.Backend] = pointnet.BackboneOutput[B]

// NewBackbone creates a backbone; with localFeatures it returns per-point
// [local; global] features.
func NewBackbone[B tensor.Backend](cfg Config, localFeatures bool, backend B) (*Backbone[B], error) {
	return pointnet.NewBackbone(cfg, localFeatures, backend)
}

// HeadOutput holds logits, critical indices and the feature transform.
type HeadOutput[B tensor.Backend] = pointnet.HeadOutput[B]

// ClassificationHead predicts a label per cloud.
type ClassificationHead[B tensor.Backend] = pointnet.ClassificationHead[B]

// NewClassificationHead creates a classifier for cfg.NumClasses classes.
func NewClassificationHead[B tensor.Backend](cfg Config, backend B) (*ClassificationHead[B], error) {
	return pointnet.NewClassificationHead(cfg, backend)
}

// SegmentationHead predicts a label per point.
type SegmentationHead[B tensor.Backend] = pointnet.SegmentationHead[B]

// NewSegmentationHead creates a per-point classifier for cfg.NumClasses
// labels.
func NewSegmentationHead[B tensor.Backend](cfg Config, backend B) (*SegmentationHead[B], error) {
	return pointnet.NewSegmentationHead(cfg, backend)
}

// TransformDeviation returns ‖I - A·Aᵀ‖_F for every matrix of a [B, d, d]
// batch.
func TransformDeviation[B tensor.Backend](a *tensor.Tensor[float32, B]) []float64 {
	return pointnet.TransformDeviation(a)
}
