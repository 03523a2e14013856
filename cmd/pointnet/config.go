package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/pointnet/internal/pointnet"
)

// fileConfig is the YAML layout of a model configuration file. Omitted
// fields keep their defaults.
type fileConfig struct {
	NumPoints         *int     `yaml:"num_points"`
	NumGlobalFeatures *int     `yaml:"num_global_features"`
	InputDim          *int     `yaml:"input_dim"`
	NumClasses        *int     `yaml:"num_classes"`
	DropoutRate       *float64 `yaml:"dropout_rate"`
	Epsilon           *float32 `yaml:"epsilon"`
	Momentum          *float32 `yaml:"momentum"`
	Seed              *int64   `yaml:"seed"`
}

func (f fileConfig) apply(cfg *pointnet.Config) {
	if f.NumPoints != nil {
		cfg.NumPoints = *f.NumPoints
	}
	if f.NumGlobalFeatures != nil {
		cfg.NumGlobalFeatures = *f.NumGlobalFeatures
	}
	if f.InputDim != nil {
		cfg.InputDim = *f.InputDim
	}
	if f.NumClasses != nil {
		cfg.NumClasses = *f.NumClasses
	}
	if f.DropoutRate != nil {
		cfg.DropoutRate = *f.DropoutRate
	}
	if f.Epsilon != nil {
		cfg.Epsilon = *f.Epsilon
	}
	if f.Momentum != nil {
		cfg.Momentum = *f.Momentum
	}
	if f.Seed != nil {
		cfg.Seed = *f.Seed
	}
}

// parseConfigFile overlays the YAML document on the default configuration.
func parseConfigFile(data []byte) (pointnet.Config, error) {
	cfg := pointnet.DefaultConfig()

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("error unmarshalling the yaml config file: %w", err)
	}
	file.apply(&cfg)

	return cfg, nil
}

// loadConfig builds the model configuration in order of precedence:
// defaults, then the --config file, then the --seed flag.
func loadConfig(c *cli.Context, logger logrus.FieldLogger) (pointnet.Config, error) {
	cfg := pointnet.DefaultConfig()

	if path := c.String(flagConfig); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		cfg, err = parseConfigFile(data)
		if err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		logger.WithField("action", "config_load").WithField("config_file_path", path).Debug("loaded config file")
	}

	if c.IsSet(flagSeed) {
		cfg.Seed = c.Int64(flagSeed)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	logger.WithFields(logrus.Fields{
		"num_points":          cfg.NumPoints,
		"num_global_features": cfg.NumGlobalFeatures,
		"input_dim":           cfg.InputDim,
		"num_classes":         cfg.NumClasses,
		"dropout_rate":        cfg.DropoutRate,
		"seed":                cfg.Seed,
	}).Debug("model config")

	return cfg, nil
}
