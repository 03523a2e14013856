package pointnet

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/pointnet/internal/tensor"
)

// TransformDeviation returns ‖I - A·Aᵀ‖_F for every alignment matrix in a
// [B, d, d] batch. Zero means A is orthogonal.
//
// This is the quantity penalized by the usual feature-transform regularizer;
// it is a measurement and does not participate in any gradient.
func TransformDeviation[B tensor.Backend](a *tensor.Tensor[float32, B]) []float64 {
	shape := a.Shape()
	if len(shape) != 3 || shape[1] != shape[2] {
		panic(fmt.Sprintf("TransformDeviation: expected [batch, d, d], got shape %v", shape))
	}
	batch, d := shape[0], shape[1]

	identity := mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		identity.Set(i, i, 1)
	}

	src := a.Data()
	out := make([]float64, batch)
	buf := make([]float64, d*d)
	for s := 0; s < batch; s++ {
		for i, v := range src[s*d*d : (s+1)*d*d] {
			buf[i] = float64(v)
		}
		m := mat.NewDense(d, d, buf)

		var gram, diff mat.Dense
		gram.Mul(m, m.T())
		diff.Sub(identity, &gram)
		out[s] = mat.Norm(&diff, 2)
	}
	return out
}
