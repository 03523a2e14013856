package main

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/born-ml/pointnet/internal/backend/cpu"
	"github.com/born-ml/pointnet/internal/nn"
	"github.com/born-ml/pointnet/internal/pointcloud"
	"github.com/born-ml/pointnet/internal/pointnet"
)

// classificationResult summarizes one sample of a classify run.
type classificationResult struct {
	Kind           pointcloud.Kind
	Predicted      int64
	CriticalPoints int
	Deviation      float64
}

// classifyAction generates randomly rotated synthetic primitives and runs the
// classification head on them in Eval mode.
func classifyAction(c *cli.Context, logger *logrus.Logger) error {
	cfg, err := loadConfig(c, logger)
	if err != nil {
		return err
	}
	if cfg.InputDim != 3 {
		return fmt.Errorf("classify needs 3D points, config has input_dim=%d", cfg.InputDim)
	}
	batch := c.Int(flagBatch)
	if batch < 1 {
		return fmt.Errorf("--batch must be positive, got %d", batch)
	}

	results, err := runClassify(cfg, batch, cpu.New())
	if err != nil {
		return err
	}

	for i, r := range results {
		logger.WithFields(logrus.Fields{
			"sample":          i,
			"shape":           r.Kind.String(),
			"predicted_class": r.Predicted,
			"critical_points": r.CriticalPoints,
			"a2_deviation":    fmt.Sprintf("%.4f", r.Deviation),
		}).Info("classified")
	}
	logger.WithField("samples", len(results)).Warn("weights are untrained; predicted classes are arbitrary")
	return nil
}

func runClassify(cfg pointnet.Config, batch int, backend backendT) ([]classificationResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // Intentional deterministic seed for reproducibility

	kinds := make([]pointcloud.Kind, batch)
	clouds := make([]pointcloud.Cloud, batch)
	for i := range clouds {
		kinds[i] = pointcloud.Kinds[i%len(pointcloud.Kinds)]
		axis := r3.Vector{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		clouds[i] = pointcloud.Generate(kinds[i], cfg.NumPoints, rng).
			Normalize().
			Rotate(axis, rng.Float64()*2*math.Pi)
	}

	points, err := pointcloud.Batch(clouds, backend)
	if err != nil {
		return nil, err
	}

	head, err := pointnet.NewClassificationHead(cfg, backend)
	if err != nil {
		return nil, err
	}
	out, err := head.Forward(points, nn.Eval)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	_, predicted := out.Logits.MaxDim(1)
	deviation := pointnet.TransformDeviation(out.FeatureTransform)

	results := make([]classificationResult, batch)
	for i := range results {
		critical := make(map[int64]struct{})
		for g := 0; g < cfg.NumGlobalFeatures; g++ {
			critical[out.CriticalIndices.At(i, g)] = struct{}{}
		}
		results[i] = classificationResult{
			Kind:           kinds[i],
			Predicted:      predicted.At(i),
			CriticalPoints: len(critical),
			Deviation:      deviation[i],
		}
	}
	return results, nil
}
