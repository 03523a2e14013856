package pointnet

import (
	"errors"
	"fmt"

	"github.com/born-ml/pointnet/internal/nn"
	"github.com/born-ml/pointnet/internal/tensor"
)

// Common errors.
var (
	ErrInvalidConfig  = errors.New("invalid config")
	ErrShapeMismatch  = errors.New("shape mismatch")
	ErrDeviceMismatch = errors.New("device mismatch")
	ErrBatchTooSmall  = errors.New("batch too small for training mode")
)

// ConfigError reports an invalid construction parameter.
type ConfigError struct {
	Field  string // Config field or constructor argument
	Value  any    // Offending value
	Reason string // Constraint that was violated
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// ShapeError reports an input whose shape does not match what the component
// was constructed for.
type ShapeError struct {
	Component string       // Component that rejected the input
	Got       tensor.Shape // Actual input shape
	Details   string       // What was expected
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: input shape %v: %s", e.Component, e.Got, e.Details)
}

// Unwrap returns ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// DeviceError reports an input that lives on a different device than the
// component's backend.
type DeviceError struct {
	Component string
	Input     tensor.Device
	Backend   tensor.Device
}

// Error implements the error interface.
func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s: input on %s, backend on %s", e.Component, e.Input, e.Backend)
}

// Unwrap returns ErrDeviceMismatch.
func (e *DeviceError) Unwrap() error {
	return ErrDeviceMismatch
}

// validateInput checks a [batch, dim, points] input at a component boundary.
func validateInput[B tensor.Backend](component string, x *tensor.Tensor[float32, B], dim, numPoints int, mode nn.Mode, backend B) error {
	if x.Device() != backend.Device() {
		return &DeviceError{Component: component, Input: x.Device(), Backend: backend.Device()}
	}

	shape := x.Shape()
	if len(shape) != 3 {
		return &ShapeError{Component: component, Got: shape, Details: "expected rank 3 [batch, dim, points]"}
	}
	if shape[1] != dim {
		return &ShapeError{Component: component, Got: shape, Details: fmt.Sprintf("expected %d channels, got %d", dim, shape[1])}
	}
	if shape[2] != numPoints {
		return &ShapeError{Component: component, Got: shape, Details: fmt.Sprintf("expected %d points, got %d", numPoints, shape[2])}
	}
	if mode == nn.Train && shape[0] < 2 {
		return fmt.Errorf("%s: batch size %d: %w", component, shape[0], ErrBatchTooSmall)
	}
	return nil
}
