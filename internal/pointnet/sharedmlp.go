package pointnet

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/pointnet/internal/nn"
	"github.com/born-ml/pointnet/internal/tensor"
)

// SharedMLP applies the same stack of Conv1D -> BatchNorm1D -> ReLU blocks to
// every point of a [batch, channels, points] input.
//
// With a plain output the final block is a bare Conv1D projection, as used
// for logits.
//
// Example:
//
//	mlp, err := pointnet.NewSharedMLP([]int{3, 64, 64}, false, cfg, backend)
//	features := mlp.Forward(points, nn.Train) // [B, 3, N] -> [B, 64, N]
type SharedMLP[B tensor.Backend] struct {
	channels []int
	layers   *nn.Sequential[B]
}

// NewSharedMLP creates a shared MLP over the given channel widths, e.g.
// []int{64, 64, 128, 1024}.
func NewSharedMLP[B tensor.Backend](channels []int, plainOutput bool, cfg Config, backend B) (*SharedMLP[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(channels) < 2 {
		return nil, &ConfigError{Field: "channels", Value: channels, Reason: "need at least input and output width"}
	}
	for _, c := range channels {
		if c <= 0 {
			return nil, &ConfigError{Field: "channels", Value: channels, Reason: "widths must be positive"}
		}
	}
	return newSharedMLP(channels, plainOutput, cfg, cfg.newRand(), backend), nil
}

func newSharedMLP[B tensor.Backend](channels []int, plainOutput bool, cfg Config, rng *rand.Rand, backend B) *SharedMLP[B] {
	project := func(in, out int) nn.Module[B] {
		return nn.NewConv1D(in, out, rng, backend)
	}
	return &SharedMLP[B]{
		channels: append([]int(nil), channels...),
		layers:   buildMLP(channels, plainOutput, project, cfg, backend),
	}
}

// buildMLP chains project -> BatchNorm1D -> ReLU for each consecutive pair of
// widths. With plainOutput the last pair gets the projection only.
func buildMLP[B tensor.Backend](widths []int, plainOutput bool, project func(in, out int) nn.Module[B], cfg Config, backend B) *nn.Sequential[B] {
	seq := nn.NewSequential[B]()
	last := len(widths) - 2
	for i := 0; i <= last; i++ {
		in, out := widths[i], widths[i+1]
		seq.Add(project(in, out))
		if plainOutput && i == last {
			break
		}
		seq.Add(nn.NewBatchNorm1D(out, cfg.Epsilon, cfg.Momentum, backend))
		seq.Add(nn.NewReLU[B]())
	}
	return seq
}

// Forward applies the blocks point-wise.
func (m *SharedMLP[B]) Forward(input *tensor.Tensor[float32, B], mode nn.Mode) *tensor.Tensor[float32, B] {
	return m.layers.Forward(input, mode)
}

// Parameters returns the weights of every block in order.
func (m *SharedMLP[B]) Parameters() []*nn.Parameter[B] {
	return m.layers.Parameters()
}

// Buffers returns the batch normalization running statistics.
func (m *SharedMLP[B]) Buffers() []*nn.Buffer[B] {
	return m.layers.Buffers()
}

// Channels returns the channel widths, input first.
func (m *SharedMLP[B]) Channels() []int {
	return append([]int(nil), m.channels...)
}

// InChannels returns the expected input width.
func (m *SharedMLP[B]) InChannels() int {
	return m.channels[0]
}

// OutChannels returns the output width.
func (m *SharedMLP[B]) OutChannels() int {
	return m.channels[len(m.channels)-1]
}

// String returns a string representation of the block.
func (m *SharedMLP[B]) String() string {
	return fmt.Sprintf("SharedMLP(%v)", m.channels)
}
