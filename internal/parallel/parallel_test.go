package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	cfgs := map[string]Config{
		"default":    DefaultConfig(),
		"sequential": Sequential(),
		"fine":       {Enabled: true, NumWorkers: 4, MinChunkSize: 1},
	}

	for name, cfg := range cfgs {
		t.Run(name, func(t *testing.T) {
			n := 1000
			hits := make([]int32, n)
			var counter int64

			For(n, func(i int) {
				atomic.AddInt32(&hits[i], 1)
				atomic.AddInt64(&counter, 1)
			}, cfg)

			assert.Equal(t, int64(n), counter)
			for i, h := range hits {
				assert.Equal(t, int32(1), h, "index %d visited %d times", i, h)
			}
		})
	}
}

func TestFor_Empty(t *testing.T) {
	called := false
	For(0, func(_ int) { called = true }, DefaultConfig())
	assert.False(t, called)
}

func TestFor_SmallLoopRunsInline(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 64}

	// Below 2*MinChunkSize the loop runs in order on the caller.
	var order []int
	For(10, func(i int) { order = append(order, i) }, cfg)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestForBatch(t *testing.T) {
	batch, channels := 4, 8
	results := make([][]bool, batch)
	for b := range results {
		results[b] = make([]bool, channels)
	}

	ForBatch(batch, channels, func(b, c int) {
		results[b][c] = true
	}, Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1})

	for b := 0; b < batch; b++ {
		for c := 0; c < channels; c++ {
			assert.True(t, results[b][c], "missing result at [%d][%d]", b, c)
		}
	}
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000
	data := make([]float64, n)

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			For(n, func(j int) { data[j] = float64(j) * 0.5 }, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			For(n, func(j int) { data[j] = float64(j) * 0.5 }, Sequential())
		}
	})
}
