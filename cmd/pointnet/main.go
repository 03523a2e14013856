// Package main provides the pointnet CLI: smoke tests and synthetic
// inference for the PointNet models.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const version = "v0.1.0-dev"

const (
	flagConfig = "config"
	flagDebug  = "debug"
	flagSeed   = "seed"
	flagBatch  = "batch"
)

func newApp(logger *logrus.Logger) *cli.App {
	return &cli.App{
		Name:            "pointnet",
		Usage:           "run PointNet models on point clouds",
		Version:         version,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load model configuration from YAML `FILE`",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
			&cli.Int64Flag{
				Name:  flagSeed,
				Usage: "seed for weight initialization, dropout and synthetic data (overrides the config file)",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "smoke",
				Usage:     "build every component and check output shapes",
				UsageText: "pointnet smoke [--batch B]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  flagBatch,
						Value: 2,
						Usage: "batch size for the training-mode passes (at least 2)",
					},
				},
				Action: func(c *cli.Context) error {
					return smokeAction(c, logger)
				},
			},
			{
				Name:      "classify",
				Usage:     "classify synthetic spheres, cubes and cylinders",
				UsageText: "pointnet classify [--batch B]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  flagBatch,
						Value: 6,
						Usage: "number of synthetic clouds",
					},
				},
				Action: func(c *cli.Context) error {
					return classifyAction(c, logger)
				},
			},
		},
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)
	return logger
}

func main() {
	logger := newLogger()
	if err := newApp(logger).Run(os.Args); err != nil {
		logger.WithError(err).Fatal("pointnet failed")
	}
}
