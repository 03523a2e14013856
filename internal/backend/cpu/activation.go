package cpu

import (
	"fmt"

	"github.com/born-ml/pointnet/internal/tensor"
)

// ReLU applies max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	cpu.checkDevice("relu", x)
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("relu: unsupported dtype %s", x.DType()))
	}

	result := tensor.MustNewRaw(x.Shape(), x.DType(), cpu.device)
	src, dst := x.AsFloat32(), result.AsFloat32()
	for i, v := range src {
		if v > 0 {
			dst[i] = v
		}
	}
	return result
}
