package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Operations return freshly allocated tensors and never modify their inputs.
// Programmer errors (incompatible shapes, wrong dtypes) panic.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// MulScalar multiplies every element by a scalar.
	MulScalar(x *RawTensor, scalar float32) *RawTensor

	// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// BatchMatMul performs batched matrix multiplication:
	// [B, M, K] @ [B, K, N] -> [B, M, N]. A batch dimension of 1 on either
	// side is broadcast against the other.
	BatchMatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Cat(tensors []*RawTensor, dim int) *RawTensor
	Expand(x *RawTensor, shape Shape) *RawTensor

	// ReLU applies max(0, x) element-wise.
	ReLU(x *RawTensor) *RawTensor

	// MaxDim reduces dim by taking the maximum, returning the values and the
	// int64 index of the first maximizing element along dim.
	MaxDim(x *RawTensor, dim int) (values, indices *RawTensor)

	// ChannelMoments computes the per-channel mean and biased variance of an
	// input shaped [B, C] or [B, C, N], reducing over every axis except 1.
	ChannelMoments(x *RawTensor) (mean, variance *RawTensor)

	// BatchNorm computes gamma * (x - mean) / sqrt(variance + eps) + beta per
	// channel (axis 1) for inputs shaped [B, C] or [B, C, N].
	BatchNorm(x, mean, variance, gamma, beta *RawTensor, eps float32) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
