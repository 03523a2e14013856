package nn

import (
	"fmt"

	"github.com/born-ml/pointnet/internal/tensor"
)

// BatchNorm1D applies batch normalization per channel over a [B, C] or
// [B, C, N] input.
//
// Formula: Y = gamma * (X - mean) / sqrt(var + eps) + beta
//
// Where mean and var are computed per channel over the batch and point axes.
//
// In Train mode the batch statistics are used and the running statistics are
// updated with an exponential moving average:
//
//	running_mean = (1 - momentum) * running_mean + momentum * mean
//	running_var  = (1 - momentum) * running_var  + momentum * var_unbiased
//
// In Eval mode the running statistics are used unchanged.
//
// Example:
//
//	bn := nn.NewBatchNorm1D(64, 1e-5, 0.1, backend)
//	out := bn.Forward(features, nn.Train) // [B, 64, N] -> [B, 64, N]
type BatchNorm1D[B tensor.Backend] struct {
	Gamma    *Parameter[B] // learnable scale [num_features]
	Beta     *Parameter[B] // learnable shift [num_features]
	Epsilon  float32       // numerical stability constant
	Momentum float32       // running statistics update rate

	runningMean *Buffer[B] // [num_features]
	runningVar  *Buffer[B] // [num_features]

	numFeatures int
	backend     B
}

// NewBatchNorm1D creates a BatchNorm1D layer.
//
// Gamma starts at ones, beta at zeros, running mean at zeros and running
// variance at ones.
func NewBatchNorm1D[B tensor.Backend](numFeatures int, epsilon, momentum float32, backend B) *BatchNorm1D[B] {
	shape := tensor.Shape{numFeatures}
	return &BatchNorm1D[B]{
		Gamma:       NewParameter("gamma", Ones(shape, backend)),
		Beta:        NewParameter("beta", Zeros(shape, backend)),
		Epsilon:     epsilon,
		Momentum:    momentum,
		runningMean: NewBuffer("running_mean", Zeros(shape, backend)),
		runningVar:  NewBuffer("running_var", Ones(shape, backend)),
		numFeatures: numFeatures,
		backend:     backend,
	}
}

// Forward normalizes the input.
//
// Panics if the input is not [B, C] or [B, C, N] with C equal to the
// configured number of features, or if Train mode sees a single value per
// channel.
func (bn *BatchNorm1D[B]) Forward(input *tensor.Tensor[float32, B], mode Mode) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 2 && len(shape) != 3 {
		panic(fmt.Sprintf("BatchNorm1D.Forward: expected [batch, channels] or [batch, channels, points], got shape %v", shape))
	}
	if shape[1] != bn.numFeatures {
		panic(fmt.Sprintf("BatchNorm1D.Forward: expected %d channels, got %d", bn.numFeatures, shape[1]))
	}

	mean, variance := bn.runningMean.Tensor().Raw(), bn.runningVar.Tensor().Raw()
	if mode == Train {
		count := shape[0]
		if len(shape) == 3 {
			count *= shape[2]
		}
		if count < 2 {
			panic(fmt.Sprintf("BatchNorm1D.Forward: expected more than 1 value per channel when training, got input shape %v", shape))
		}

		mean, variance = bn.backend.ChannelMoments(input.Raw())
		bn.updateRunning(mean.AsFloat32(), variance.AsFloat32(), count)
	}

	out := bn.backend.BatchNorm(input.Raw(), mean, variance, bn.Gamma.Tensor().Raw(), bn.Beta.Tensor().Raw(), bn.Epsilon)
	return tensor.New[float32, B](out, bn.backend)
}

func (bn *BatchNorm1D[B]) updateRunning(mean, variance []float32, count int) {
	correction := float32(count) / float32(count-1)
	m := bn.Momentum

	rm := bn.runningMean.Tensor().Data()
	rv := bn.runningVar.Tensor().Data()
	for c := range rm {
		rm[c] = (1-m)*rm[c] + m*mean[c]
		rv[c] = (1-m)*rv[c] + m*variance[c]*correction
	}
}

// Parameters returns [gamma, beta].
func (bn *BatchNorm1D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.Gamma, bn.Beta}
}

// Buffers returns [running_mean, running_var].
func (bn *BatchNorm1D[B]) Buffers() []*Buffer[B] {
	return []*Buffer[B]{bn.runningMean, bn.runningVar}
}

// RunningMean returns the running mean buffer.
func (bn *BatchNorm1D[B]) RunningMean() *Buffer[B] {
	return bn.runningMean
}

// RunningVar returns the running variance buffer.
func (bn *BatchNorm1D[B]) RunningVar() *Buffer[B] {
	return bn.runningVar
}

// NumFeatures returns the number of normalized channels.
func (bn *BatchNorm1D[B]) NumFeatures() int {
	return bn.numFeatures
}

// String returns a string representation of the layer.
func (bn *BatchNorm1D[B]) String() string {
	return fmt.Sprintf("BatchNorm1D(%d, eps=%g, momentum=%g)", bn.numFeatures, bn.Epsilon, bn.Momentum)
}
