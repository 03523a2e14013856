package tensor

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	a := tensor.Zeros[float32](Shape{8, 3, 3}, backend)
//	iden := tensor.Eye[float32](3, backend)
//	c := a.Add(iden) // Shape: [8, 3, 3] (identity broadcast over batch)
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.Add(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.Mul(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// MulScalar multiplies every element by s.
func (t *Tensor[T, B]) MulScalar(s float32) *Tensor[T, B] {
	result := t.backend.MulScalar(t.raw, s)
	return New[T, B](result, t.backend)
}

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) → (M, N).
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.MatMul(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// BatchMatMul performs batched matrix multiplication:
// (B, M, K) @ (B, K, N) → (B, M, N).
//
// Example:
//
//	// Re-orient every cloud in the batch by its own 3×3 transform.
//	pts := x.Transpose(0, 2, 1)            // [B, N, 3]
//	aligned := pts.BatchMatMul(transform)  // [B, N, 3]
func (t *Tensor[T, B]) BatchMatMul(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.BatchMatMul(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// Reshape returns a tensor with the same data but different shape.
// The new shape must have the same number of elements.
func (t *Tensor[T, B]) Reshape(newShape ...int) *Tensor[T, B] {
	result := t.backend.Reshape(t.raw, Shape(newShape))
	return New[T, B](result, t.backend)
}

// Transpose permutes the tensor's dimensions.
//
// If axes is empty, reverses all dimensions (for 2D, this is standard transpose).
// Otherwise, axes specifies the permutation.
//
// Example:
//
//	t := tensor.Zeros[float32](Shape{2, 3, 4}, backend)
//	transposed := t.Transpose(0, 2, 1) // Shape: [2, 4, 3]
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	result := t.backend.Transpose(t.raw, axes...)
	return New[T, B](result, t.backend)
}

// T is a shortcut for 2D transpose (swaps rows and columns).
// Panics if the tensor is not 2D.
func (t *Tensor[T, B]) T() *Tensor[T, B] {
	if len(t.Shape()) != 2 {
		panic("T() only works for 2D tensors")
	}
	return t.Transpose(1, 0)
}

// Expand broadcasts the tensor to shape, materializing the copies.
//
// Example:
//
//	g := global.Reshape(b, 1024, 1) // [B, 1024, 1]
//	g = g.Expand(Shape{b, 1024, n}) // [B, 1024, N]
func (t *Tensor[T, B]) Expand(shape Shape) *Tensor[T, B] {
	result := t.backend.Expand(t.raw, shape)
	return New[T, B](result, t.backend)
}

// ReLU applies max(0, x) element-wise.
func (t *Tensor[T, B]) ReLU() *Tensor[T, B] {
	return New[T, B](t.backend.ReLU(t.raw), t.backend)
}

// MaxDim reduces dim by taking the maximum. It returns the maxima and the
// index along dim of the first element attaining each maximum.
//
// Example:
//
//	feats := tensor.Zeros[float32](Shape{32, 1024, 2500}, backend)
//	global, idx := feats.MaxDim(2) // [32, 1024], [32, 1024]
func (t *Tensor[T, B]) MaxDim(dim int) (*Tensor[T, B], *Tensor[int64, B]) {
	values, indices := t.backend.MaxDim(t.raw, dim)
	return New[T, B](values, t.backend), New[int64, B](indices, t.backend)
}

// Cat concatenates tensors along dim. All other dimensions must match.
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	if len(tensors) == 0 {
		panic("Cat: no tensors to concatenate")
	}
	raws := make([]*RawTensor, len(tensors))
	for i, t := range tensors {
		raws[i] = t.raw
	}
	backend := tensors[0].backend
	return New[T, B](backend.Cat(raws, dim), backend)
}
