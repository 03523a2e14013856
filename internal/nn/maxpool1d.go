package nn

import (
	"fmt"

	"github.com/born-ml/pointnet/internal/tensor"
)

// MaxPool1D takes the maximum over the whole point axis of a [B, C, N] input.
//
// The pooling window is fixed at construction and must equal N, which makes
// the result independent of point order:
//
//	Input:  [batch, channels, width]
//	Output: [batch, channels]
//
// Example:
//
//	pool := nn.NewMaxPool1D[Backend](2500)
//	global, idx := pool.ForwardWithIndices(features) // [B, 1024, 2500] -> [B, 1024]
type MaxPool1D[B tensor.Backend] struct {
	width int
}

// NewMaxPool1D creates a pooling layer over exactly width points.
func NewMaxPool1D[B tensor.Backend](width int) *MaxPool1D[B] {
	if width <= 0 {
		panic(fmt.Sprintf("NewMaxPool1D: width must be positive, got %d", width))
	}
	return &MaxPool1D[B]{width: width}
}

// Forward returns the per-channel maxima.
func (p *MaxPool1D[B]) Forward(input *tensor.Tensor[float32, B], _ Mode) *tensor.Tensor[float32, B] {
	values, _ := p.ForwardWithIndices(input)
	return values
}

// ForwardWithIndices returns the per-channel maxima and, for every channel,
// the index of the point that produced it (the first one on ties).
func (p *MaxPool1D[B]) ForwardWithIndices(input *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], *tensor.Tensor[int64, B]) {
	shape := input.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("MaxPool1D.Forward: expected 3D input [batch, channels, points], got shape %v", shape))
	}
	if shape[2] != p.width {
		panic(fmt.Sprintf("MaxPool1D.Forward: expected %d points, got %d", p.width, shape[2]))
	}
	return input.MaxDim(2)
}

// Width returns the pooling window.
func (p *MaxPool1D[B]) Width() int {
	return p.width
}

// Parameters returns nil.
func (p *MaxPool1D[B]) Parameters() []*Parameter[B] {
	return nil
}

// Buffers returns nil.
func (p *MaxPool1D[B]) Buffers() []*Buffer[B] {
	return nil
}
