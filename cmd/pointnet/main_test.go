package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/pointnet/internal/backend/cpu"
	"github.com/born-ml/pointnet/internal/pointnet"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func smallConfig() pointnet.Config {
	cfg := pointnet.DefaultConfig()
	cfg.NumPoints = 24
	cfg.NumGlobalFeatures = 16
	cfg.NumClasses = 3
	cfg.Seed = 7
	return cfg
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseConfigFile(t *testing.T) {
	cfg, err := parseConfigFile([]byte("num_points: 1024\nnum_classes: 40\ndropout_rate: 0.5\n"))
	require.NoError(t, err)

	want := pointnet.DefaultConfig()
	want.NumPoints = 1024
	want.NumClasses = 40
	want.DropoutRate = 0.5
	assert.Equal(t, want, cfg)

	_, err = parseConfigFile([]byte("num_points: [1, 2]"))
	assert.Error(t, err)
}

func TestRunSmoke(t *testing.T) {
	assert.NoError(t, runSmoke(smallConfig(), 2, cpu.New(), quietLogger()))
}

func TestRunClassify(t *testing.T) {
	cfg := smallConfig()

	results, err := runClassify(cfg, 4, cpu.New())
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, i%3, int(r.Kind))
		assert.GreaterOrEqual(t, r.Predicted, int64(0))
		assert.Less(t, r.Predicted, int64(cfg.NumClasses))
		assert.GreaterOrEqual(t, r.CriticalPoints, 1)
		assert.LessOrEqual(t, r.CriticalPoints, cfg.NumGlobalFeatures)
		assert.GreaterOrEqual(t, r.Deviation, 0.0)
	}

	again, err := runClassify(cfg, 4, cpu.New())
	require.NoError(t, err)
	assert.Equal(t, results, again, "same seed must reproduce the run")
}

func TestAppCommands(t *testing.T) {
	path := writeConfig(t, "num_points: 24\nnum_global_features: 16\nnum_classes: 3\n")
	run := func(args ...string) error {
		return newApp(quietLogger()).Run(append([]string{"pointnet"}, args...))
	}

	require.NoError(t, run("--config", path, "--seed", "3", "smoke", "--batch", "2"))
	require.NoError(t, run("--config", path, "classify", "--batch", "3"))

	err := run("--config", path, "smoke", "--batch", "1")
	assert.Error(t, err)

	bad := writeConfig(t, "num_points: 0\n")
	err = run("--config", bad, "smoke")
	assert.ErrorIs(t, err, pointnet.ErrInvalidConfig)

	err = run("--config", filepath.Join(t.TempDir(), "missing.yaml"), "smoke")
	assert.Error(t, err)
}
