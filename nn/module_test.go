// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"math/rand"
	"testing"

	"github.com/born-ml/pointnet/backend/cpu"
	"github.com/born-ml/pointnet/nn"
	"github.com/born-ml/pointnet/tensor"
)

// TestModuleInterface verifies that concrete types implement Module interface.
func TestModuleInterface(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name    string
		module  nn.Module[*cpu.Backend]
		input   tensor.Shape
		output  tensor.Shape
		params  int
		buffers int
	}{
		{
			name:   "Linear",
			module: nn.NewLinear(10, 5, rng, backend),
			input:  tensor.Shape{2, 10},
			output: tensor.Shape{2, 5},
			params: 2,
		},
		{
			name:   "Conv1D",
			module: nn.NewConv1D(3, 8, rng, backend),
			input:  tensor.Shape{2, 3, 7},
			output: tensor.Shape{2, 8, 7},
			params: 2,
		},
		{
			name:    "BatchNorm1D",
			module:  nn.NewBatchNorm1D(4, 1e-5, 0.1, backend),
			input:   tensor.Shape{2, 4, 3},
			output:  tensor.Shape{2, 4, 3},
			params:  2,
			buffers: 2,
		},
		{
			name:   "MaxPool1D",
			module: nn.NewMaxPool1D[*cpu.Backend](7),
			input:  tensor.Shape{2, 3, 7},
			output: tensor.Shape{2, 3},
		},
		{
			name:   "Dropout",
			module: nn.NewDropout[*cpu.Backend](0.3, rng),
			input:  tensor.Shape{2, 10},
			output: tensor.Shape{2, 10},
		},
		{
			name: "Sequential",
			module: nn.NewSequential[*cpu.Backend](
				nn.NewConv1D(3, 4, rng, backend),
				nn.NewBatchNorm1D(4, 1e-5, 0.1, backend),
				nn.NewReLU[*cpu.Backend](),
			),
			input:   tensor.Shape{2, 3, 5},
			output:  tensor.Shape{2, 4, 5},
			params:  4,
			buffers: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, mode := range []nn.Mode{nn.Train, nn.Eval} {
				input := tensor.Randn(tt.input, rng, backend)
				output := tt.module.Forward(input, mode)
				if !output.Shape().Equal(tt.output) {
					t.Errorf("%s: output shape = %v, want %v", mode, output.Shape(), tt.output)
				}
			}

			if got := len(tt.module.Parameters()); got != tt.params {
				t.Errorf("Parameters() returned %d, want %d", got, tt.params)
			}
			if got := len(tt.module.Buffers()); got != tt.buffers {
				t.Errorf("Buffers() returned %d, want %d", got, tt.buffers)
			}
		})
	}
}

// TestCountParameters verifies parameter counting through the public API.
func TestCountParameters(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(1024, 512, rand.New(rand.NewSource(1)), backend)

	if got, want := nn.CountParameters(layer.Parameters()), 1024*512+512; got != want {
		t.Errorf("CountParameters = %d, want %d", got, want)
	}
}
