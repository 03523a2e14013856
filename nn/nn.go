// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/pointnet/internal/nn"
	"github.com/born-ml/pointnet/internal/tensor"
)

// Mode selects training or evaluation behavior for a forward pass.
type Mode = nn.Mode

// Modes.
const (
	Eval  Mode = nn.Eval
	Train Mode = nn.Train
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Buffer is non-trainable module state such as running statistics.
type Buffer[B tensor.Backend] = nn.Buffer[B]

// CountParameters returns the total number of scalar values in params.
func CountParameters[B tensor.Backend](params []*Parameter[B]) int {
	return nn.CountParameters(params)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	layer := nn.NewLinear(1024, 512, rng, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, rng, backend)
}

// Conv1D represents a point-wise (kernel size 1) convolution.
type Conv1D[B tensor.Backend] = nn.Conv1D[B]

// NewConv1D creates a new point-wise convolution with Xavier initialization.
//
// Example:
//
//	conv := nn.NewConv1D(3, 64, rng, backend) // [B, 3, N] -> [B, 64, N]
func NewConv1D[B tensor.Backend](inChannels, outChannels int, rng *rand.Rand, backend B) *Conv1D[B] {
	return nn.NewConv1D(inChannels, outChannels, rng, backend)
}

// BatchNorm1D represents per-channel batch normalization.
type BatchNorm1D[B tensor.Backend] = nn.BatchNorm1D[B]

// NewBatchNorm1D creates a batch normalization layer.
//
// Example:
//
//	bn := nn.NewBatchNorm1D(64, 1e-5, 0.1, backend)
func NewBatchNorm1D[B tensor.Backend](numFeatures int, epsilon, momentum float32, backend B) *BatchNorm1D[B] {
	return nn.NewBatchNorm1D(numFeatures, epsilon, momentum, backend)
}

// MaxPool1D represents a max pool over the full point axis.
type MaxPool1D[B tensor.Backend] = nn.MaxPool1D[B]

// NewMaxPool1D creates a pool over exactly width points.
func NewMaxPool1D[B tensor.Backend](width int) *MaxPool1D[B] {
	return nn.NewMaxPool1D[B](width)
}

// Activations and regularization

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Dropout represents inverted dropout.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a dropout layer with drop probability p in [0, 1).
func NewDropout[B tensor.Backend](p float64, rng *rand.Rand) *Dropout[B] {
	return nn.NewDropout[B](p, rng)
}

// Containers

// Sequential chains modules, passing the same Mode to each.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Initialization

// Xavier returns a tensor initialized from U(-a, a), a = sqrt(6/(fanIn+fanOut)).
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, rng, backend)
}
