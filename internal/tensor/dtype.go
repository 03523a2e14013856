// Package tensor provides the core tensor types and operations used by the
// PointNet layers.
package tensor

// DType is a constraint for supported tensor element types.
//
// Real-valued activations and parameters are float32; index tensors (for
// example the critical-point indices produced by max pooling) are int64.
type DType interface {
	~float32 | ~int64
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Int64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Int64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case int64:
		return Int64
	default:
		panic("unsupported type")
	}
}
