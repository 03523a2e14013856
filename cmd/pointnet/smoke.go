package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/born-ml/pointnet/internal/backend/cpu"
	"github.com/born-ml/pointnet/internal/nn"
	"github.com/born-ml/pointnet/internal/pointnet"
	"github.com/born-ml/pointnet/internal/tensor"
)

type backendT = *cpu.CPUBackend

// smokeAction builds every component, runs Train-mode passes at the given
// batch size and Eval-mode passes at batch size 1, and logs output shapes.
func smokeAction(c *cli.Context, logger *logrus.Logger) error {
	cfg, err := loadConfig(c, logger)
	if err != nil {
		return err
	}
	batch := c.Int(flagBatch)
	if batch < 2 {
		return fmt.Errorf("--batch must be at least 2 for training-mode passes, got %d", batch)
	}

	return runSmoke(cfg, batch, cpu.New(), logger)
}

func runSmoke(cfg pointnet.Config, batch int, backend backendT, logger logrus.FieldLogger) error {
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // Intentional deterministic seed for reproducibility

	for _, step := range []struct {
		mode  nn.Mode
		batch int
	}{
		{nn.Train, batch},
		{nn.Eval, 1},
	} {
		points := tensor.Randn(tensor.Shape{step.batch, cfg.InputDim, cfg.NumPoints}, rng, backend)
		log := logger.WithFields(logrus.Fields{"mode": step.mode, "batch": step.batch})

		for _, dim := range []int{cfg.InputDim, 64} {
			tnet, err := pointnet.NewAlignmentNet(dim, cfg, backend)
			if err != nil {
				return err
			}
			input := points
			if dim != cfg.InputDim {
				input = tensor.Randn(tensor.Shape{step.batch, dim, cfg.NumPoints}, rng, backend)
			}

			start := time.Now()
			a, err := tnet.Forward(input, step.mode)
			if err != nil {
				return fmt.Errorf("alignment net (dim=%d): %w", dim, err)
			}
			log.WithFields(logrus.Fields{
				"component": tnet.String(),
				"output":    a.Shape(),
				"elapsed":   time.Since(start),
			}).Info("forward")
		}

		for _, local := range []bool{false, true} {
			bb, err := pointnet.NewBackbone(cfg, local, backend)
			if err != nil {
				return err
			}

			start := time.Now()
			out, err := bb.Forward(points, step.mode)
			if err != nil {
				return fmt.Errorf("backbone (local=%t): %w", local, err)
			}
			log.WithFields(logrus.Fields{
				"component":         bb.String(),
				"features":          out.Features.Shape(),
				"critical_indices":  out.CriticalIndices.Shape(),
				"feature_transform": out.FeatureTransform.Shape(),
				"elapsed":           time.Since(start),
			}).Info("forward")
		}

		cls, err := pointnet.NewClassificationHead(cfg, backend)
		if err != nil {
			return err
		}
		if err := logHead(log, cls.String(), func() (*pointnet.HeadOutput[backendT], error) {
			return cls.Forward(points, step.mode)
		}); err != nil {
			return err
		}

		seg, err := pointnet.NewSegmentationHead(cfg, backend)
		if err != nil {
			return err
		}
		if err := logHead(log, seg.String(), func() (*pointnet.HeadOutput[backendT], error) {
			return seg.Forward(points, step.mode)
		}); err != nil {
			return err
		}
	}

	logger.Info("smoke test passed")
	return nil
}

func logHead(log logrus.FieldLogger, name string, forward func() (*pointnet.HeadOutput[backendT], error)) error {
	start := time.Now()
	out, err := forward()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	log.WithFields(logrus.Fields{
		"component":         name,
		"logits":            out.Logits.Shape(),
		"critical_indices":  out.CriticalIndices.Shape(),
		"feature_transform": out.FeatureTransform.Shape(),
		"elapsed":           time.Since(start),
	}).Info("forward")
	return nil
}
