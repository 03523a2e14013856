package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/pointnet/internal/parallel"
	"github.com/born-ml/pointnet/internal/tensor"
)

// channelLayout splits a [B, C] or [B, C, N] shape into batch, channel and
// per-channel inner extents.
func channelLayout(op string, shape tensor.Shape) (batch, channels, inner int) {
	switch len(shape) {
	case 2:
		return shape[0], shape[1], 1
	case 3:
		return shape[0], shape[1], shape[2]
	default:
		panic(fmt.Sprintf("%s: expected [B, C] or [B, C, N] input, got shape %v", op, shape))
	}
}

// ChannelMoments computes per-channel mean and biased variance over the batch
// and point axes. Accumulation is done in float64.
func (cpu *CPUBackend) ChannelMoments(x *tensor.RawTensor) (mean, variance *tensor.RawTensor) {
	cpu.checkDevice("channelmoments", x)
	batch, channels, inner := channelLayout("channelmoments", x.Shape())

	mean = tensor.MustNewRaw(tensor.Shape{channels}, tensor.Float32, cpu.device)
	variance = tensor.MustNewRaw(tensor.Shape{channels}, tensor.Float32, cpu.device)

	src := x.AsFloat32()
	means := mean.AsFloat32()
	vars := variance.AsFloat32()
	count := float64(batch * inner)

	parallel.For(channels, func(c int) {
		var sum float64
		for b := 0; b < batch; b++ {
			row := src[(b*channels+c)*inner : (b*channels+c+1)*inner]
			for _, v := range row {
				sum += float64(v)
			}
		}
		mu := sum / count

		var sq float64
		for b := 0; b < batch; b++ {
			row := src[(b*channels+c)*inner : (b*channels+c+1)*inner]
			for _, v := range row {
				d := float64(v) - mu
				sq += d * d
			}
		}

		means[c] = float32(mu)
		vars[c] = float32(sq / count)
	}, cpu.batchConfig())

	return mean, variance
}

// BatchNorm normalizes x per channel with the given statistics and applies the
// affine transform gamma * x_hat + beta.
func (cpu *CPUBackend) BatchNorm(x, mean, variance, gamma, beta *tensor.RawTensor, eps float32) *tensor.RawTensor {
	cpu.checkDevice("batchnorm", x, mean, variance, gamma, beta)
	batch, channels, inner := channelLayout("batchnorm", x.Shape())
	for _, p := range []*tensor.RawTensor{mean, variance, gamma, beta} {
		if p.NumElements() != channels {
			panic(fmt.Sprintf("batchnorm: statistic of shape %v does not match %d channels", p.Shape(), channels))
		}
	}

	result := tensor.MustNewRaw(x.Shape(), tensor.Float32, cpu.device)

	src := x.AsFloat32()
	dst := result.AsFloat32()
	mu := mean.AsFloat32()
	vr := variance.AsFloat32()
	g := gamma.AsFloat32()
	bt := beta.AsFloat32()

	scale := make([]float32, channels)
	shift := make([]float32, channels)
	for c := 0; c < channels; c++ {
		inv := float32(1 / math.Sqrt(float64(vr[c])+float64(eps)))
		scale[c] = g[c] * inv
		shift[c] = bt[c] - mu[c]*scale[c]
	}

	parallel.ForBatch(batch, channels, func(b, c int) {
		off := (b*channels + c) * inner
		for i := off; i < off+inner; i++ {
			dst[i] = src[i]*scale[c] + shift[c]
		}
	}, cpu.batchConfig())

	return result
}
