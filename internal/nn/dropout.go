package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/pointnet/internal/tensor"
)

// Dropout randomly zeroes inputs during training (inverted dropout).
//
// In Train mode every element is zeroed with probability P and survivors are
// scaled by 1/(1-P), so the expected activation is unchanged. In Eval mode
// Dropout is the identity.
//
// The mask is drawn from the layer's own *rand.Rand, so a Dropout layer must
// not be used by concurrent Train-mode forwards.
type Dropout[B tensor.Backend] struct {
	P float64

	rng *rand.Rand
}

// NewDropout creates a Dropout layer with drop probability p in [0, 1).
func NewDropout[B tensor.Backend](p float64, rng *rand.Rand) *Dropout[B] {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("NewDropout: probability must be in [0, 1), got %g", p))
	}
	return &Dropout[B]{P: p, rng: rng}
}

// Forward applies the dropout mask in Train mode and returns the input
// unchanged in Eval mode.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B], mode Mode) *tensor.Tensor[float32, B] {
	if mode != Train || d.P == 0 {
		return input
	}

	backend := input.Backend()
	mask := tensor.Zeros[float32](input.Shape(), backend)
	scale := float32(1 / (1 - d.P))
	data := mask.Data()
	for i := range data {
		if d.rng.Float64() >= d.P {
			data[i] = scale
		}
	}

	return input.Mul(mask)
}

// Parameters returns nil.
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}

// Buffers returns nil.
func (d *Dropout[B]) Buffers() []*Buffer[B] {
	return nil
}

// String returns a string representation of the layer.
func (d *Dropout[B]) String() string {
	return fmt.Sprintf("Dropout(p=%g)", d.P)
}
