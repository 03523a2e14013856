package nn

import (
	"github.com/born-ml/pointnet/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input, and the same Mode is
// passed to every module.
//
// Example:
//
//	head := nn.NewSequential[B](
//	    nn.NewLinear(1024, 512, rng, backend),
//	    nn.NewBatchNorm1D(512, 1e-5, 0.1, backend),
//	    nn.NewReLU[B](),
//	)
//
//	output := head.Forward(global, nn.Train)
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{
		modules: modules,
	}
}

// Forward applies all modules in sequence.
func (s *Sequential[B]) Forward(input *tensor.Tensor[float32, B], mode Mode) *tensor.Tensor[float32, B] {
	output := input

	for _, module := range s.modules {
		output = module.Forward(output, mode)
	}

	return output
}

// Parameters returns all trainable parameters from all modules, in order.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]

	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}

	return params
}

// Buffers returns the running state of all modules, in order.
func (s *Sequential[B]) Buffers() []*Buffer[B] {
	var buffers []*Buffer[B]

	for _, module := range s.modules {
		buffers = append(buffers, module.Buffers()...)
	}

	return buffers
}

// Add appends a module to the sequence.
func (s *Sequential[B]) Add(module Module[B]) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential[B]) Module(index int) Module[B] {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}
