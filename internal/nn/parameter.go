package nn

import (
	"github.com/born-ml/pointnet/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are the tensors an external optimizer updates between forward
// passes: weights and biases of layers, and the affine terms of batch norm.
//
// Example:
//
//	for _, p := range model.Parameters() {
//	    w, g := p.Tensor().Data(), p.Grad().Data()
//	    for i := range w {
//	        w[i] -= lr * g[i]
//	    }
//	}
type Parameter[B tensor.Backend] struct {
	name   string                     // Parameter name (e.g., "weight", "bias")
	tensor *tensor.Tensor[float32, B] // The parameter tensor
	grad   *tensor.Tensor[float32, B] // Gradient supplied by the training driver
}

// NewParameter creates a new trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Grad returns the gradient tensor, or nil if none has been set.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}

// Buffer is non-trainable module state that still belongs to the model,
// such as the running mean and variance of BatchNorm1D.
//
// Buffers are mutated by Train-mode forward passes and read by Eval-mode
// passes.
type Buffer[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
}

// NewBuffer creates a named buffer.
func NewBuffer[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Buffer[B] {
	return &Buffer[B]{name: name, tensor: t}
}

// Name returns the buffer name.
func (b *Buffer[B]) Name() string {
	return b.name
}

// Tensor returns the buffer tensor.
func (b *Buffer[B]) Tensor() *tensor.Tensor[float32, B] {
	return b.tensor
}
