// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the neural network layers PointNet is assembled from.
//
// # Overview
//
// Layers:
//   - Linear: fully connected layer (T-Net tail, classifier)
//   - Conv1D: point-wise convolution with kernel size 1 (shared MLPs)
//   - BatchNorm1D: per-channel normalization with running statistics
//   - ReLU, Dropout
//   - MaxPool1D: max over the whole point axis, with arg-max indices
//   - Sequential: layer container
//
// # Mode
//
// Every Forward takes an explicit Mode. Train normalizes with batch
// statistics, updates running statistics and applies dropout; Eval uses the
// frozen running statistics and disables dropout:
//
//	out := mlp.Forward(points, nn.Train)
//	out = mlp.Forward(points, nn.Eval)
//
// # Parameters and Buffers
//
// Parameters() returns the trainable weights (with gradient slots for an
// external optimizer). Buffers() returns non-trainable running state.
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/born-ml/pointnet/backend/cpu"
//	    "github.com/born-ml/pointnet/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    rng := rand.New(rand.NewSource(1))
//
//	    mlp := nn.NewSequential[*cpu.Backend](
//	        nn.NewConv1D(3, 64, rng, backend),
//	        nn.NewBatchNorm1D(64, 1e-5, 0.1, backend),
//	        nn.NewReLU[*cpu.Backend](),
//	    )
//	}
package nn
