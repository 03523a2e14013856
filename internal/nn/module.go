// Package nn implements the neural network layers PointNet is assembled from.
//
// This package provides:
//   - Module interface: Forward with an explicit Mode, Parameters, Buffers
//   - Parameter / Buffer: trainable weights and non-trainable running state
//   - Linear: fully connected layer
//   - Conv1D: point-wise (kernel size 1) convolution shared across points
//   - BatchNorm1D: per-channel batch normalization with running statistics
//   - ReLU, Dropout, MaxPool1D
//   - Sequential: container for stacking layers
//
// Mode is passed to every Forward call instead of being stored as a flag on
// the layers, so one model value can serve training and evaluation passes.
package nn

import (
	"github.com/born-ml/pointnet/internal/tensor"
)

// Mode selects training or evaluation behavior for a forward pass.
type Mode int

const (
	// Eval uses frozen running statistics and disables dropout.
	Eval Mode = iota
	// Train normalizes with batch statistics, updates running statistics and
	// applies dropout.
	Train
)

// String returns "train" or "eval".
func (m Mode) String() string {
	if m == Train {
		return "train"
	}
	return "eval"
}

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	mlp := nn.NewSequential[B](
//	    nn.NewConv1D(3, 64, rng, backend),
//	    nn.NewBatchNorm1D(64, 1e-5, 0.1, backend),
//	    nn.NewReLU[B](),
//	)
//	out := mlp.Forward(points, nn.Train)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// Shape errors are programmer errors and panic.
	Forward(input *tensor.Tensor[float32, B], mode Mode) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module, including
	// those of nested modules. Parameterless modules return nil.
	Parameters() []*Parameter[B]

	// Buffers returns the non-trainable state (running statistics) of this
	// module, including that of nested modules.
	Buffers() []*Buffer[B]
}

// CountParameters returns the total number of scalar values in params.
func CountParameters[B tensor.Backend](params []*Parameter[B]) int {
	n := 0
	for _, p := range params {
		n += p.Tensor().NumElements()
	}
	return n
}
