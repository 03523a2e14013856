package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/pointnet/internal/tensor"
)

// Conv1D is a point-wise 1D convolution (kernel size 1).
//
// The same [out_channels, in_channels] weight matrix is applied to the
// feature vector of every point independently, which is what makes a
// PointNet MLP "shared" across points.
//
// Input shape:  [batch, in_channels, num_points]
// Weight shape: [out_channels, in_channels]
// Bias shape:   [out_channels]
// Output shape: [batch, out_channels, num_points]
//
// Example:
//
//	conv := nn.NewConv1D(3, 64, rng, backend)
//	features := conv.Forward(points, nn.Train) // [32, 3, 2500] -> [32, 64, 2500]
type Conv1D[B tensor.Backend] struct {
	inChannels  int
	outChannels int

	weight *Parameter[B] // [out_channels, in_channels]
	bias   *Parameter[B] // [out_channels]

	backend B
}

// NewConv1D creates a point-wise convolution with Xavier-initialized weights
// and zero bias.
func NewConv1D[B tensor.Backend](inChannels, outChannels int, rng *rand.Rand, backend B) *Conv1D[B] {
	weightShape := tensor.Shape{outChannels, inChannels}
	return &Conv1D[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		weight:      NewParameter("weight", Xavier(inChannels, outChannels, weightShape, rng, backend)),
		bias:        NewParameter("bias", Zeros(tensor.Shape{outChannels}, backend)),
		backend:     backend,
	}
}

// Forward applies the shared projection to every point. The mode has no
// effect on Conv1D.
func (c *Conv1D[B]) Forward(input *tensor.Tensor[float32, B], _ Mode) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("Conv1D.Forward: expected 3D input [batch, channels, points], got shape %v", shape))
	}
	if shape[1] != c.inChannels {
		panic(fmt.Sprintf("Conv1D.Forward: expected %d input channels, got %d", c.inChannels, shape[1]))
	}

	// [1, out, in] @ [batch, in, points]; the weight batch dimension broadcasts.
	w := c.weight.Tensor().Reshape(1, c.outChannels, c.inChannels)
	output := w.BatchMatMul(input)

	return output.Add(c.bias.Tensor().Reshape(1, c.outChannels, 1))
}

// Parameters returns [weight, bias].
func (c *Conv1D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{c.weight, c.bias}
}

// Buffers returns nil; Conv1D has no running state.
func (c *Conv1D[B]) Buffers() []*Buffer[B] {
	return nil
}

// Weight returns the weight parameter.
func (c *Conv1D[B]) Weight() *Parameter[B] {
	return c.weight
}

// Bias returns the bias parameter.
func (c *Conv1D[B]) Bias() *Parameter[B] {
	return c.bias
}

// InChannels returns the number of input channels.
func (c *Conv1D[B]) InChannels() int {
	return c.inChannels
}

// OutChannels returns the number of output channels.
func (c *Conv1D[B]) OutChannels() int {
	return c.outChannels
}

// String returns a string representation of the layer.
func (c *Conv1D[B]) String() string {
	return fmt.Sprintf("Conv1D(in=%d, out=%d, kernel_size=1)", c.inChannels, c.outChannels)
}
