// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package pointnet_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/born-ml/pointnet/backend/cpu"
	"github.com/born-ml/pointnet/nn"
	"github.com/born-ml/pointnet/pointnet"
	"github.com/born-ml/pointnet/tensor"
)

func testConfig() pointnet.Config {
	cfg := pointnet.DefaultConfig()
	cfg.NumPoints = 32
	cfg.NumGlobalFeatures = 64
	cfg.NumClasses = 4
	return cfg
}

// TestPublicAPI runs every component through the public facade.
func TestPublicAPI(t *testing.T) {
	backend := cpu.New()
	cfg := testConfig()
	points := tensor.Randn(tensor.Shape{2, 3, cfg.NumPoints}, rand.New(rand.NewSource(1)), backend)

	tnet, err := pointnet.NewAlignmentNet(3, cfg, backend)
	if err != nil {
		t.Fatalf("NewAlignmentNet: %v", err)
	}
	a, err := tnet.Forward(points, nn.Train)
	if err != nil {
		t.Fatalf("AlignmentNet.Forward: %v", err)
	}
	if !a.Shape().Equal(tensor.Shape{2, 3, 3}) {
		t.Errorf("alignment shape = %v, want [2 3 3]", a.Shape())
	}
	if dev := pointnet.TransformDeviation(a); len(dev) != 2 {
		t.Errorf("TransformDeviation returned %d values, want 2", len(dev))
	}

	cls, err := pointnet.NewClassificationHead(cfg, backend)
	if err != nil {
		t.Fatalf("NewClassificationHead: %v", err)
	}
	out, err := cls.Forward(points, nn.Train)
	if err != nil {
		t.Fatalf("ClassificationHead.Forward: %v", err)
	}
	if !out.Logits.Shape().Equal(tensor.Shape{2, 4}) {
		t.Errorf("classification logits shape = %v, want [2 4]", out.Logits.Shape())
	}

	seg, err := pointnet.NewSegmentationHead(cfg, backend)
	if err != nil {
		t.Fatalf("NewSegmentationHead: %v", err)
	}
	segOut, err := seg.Forward(points, nn.Eval)
	if err != nil {
		t.Fatalf("SegmentationHead.Forward: %v", err)
	}
	if !segOut.Logits.Shape().Equal(tensor.Shape{2, cfg.NumPoints, 4}) {
		t.Errorf("segmentation logits shape = %v, want [2 %d 4]", segOut.Logits.Shape(), cfg.NumPoints)
	}
}

// TestPublicErrors verifies the error values are re-exported.
func TestPublicErrors(t *testing.T) {
	backend := cpu.New()
	cfg := testConfig()

	bad := cfg
	bad.NumPoints = 0
	if _, err := pointnet.NewBackbone(bad, false, backend); !errors.Is(err, pointnet.ErrInvalidConfig) {
		t.Errorf("NewBackbone error = %v, want ErrInvalidConfig", err)
	}

	bb, err := pointnet.NewBackbone(cfg, false, backend)
	if err != nil {
		t.Fatalf("NewBackbone: %v", err)
	}

	wrong := tensor.Zeros[float32](tensor.Shape{2, 3, cfg.NumPoints / 2}, backend)
	_, err = bb.Forward(wrong, nn.Eval)
	var shapeErr *pointnet.ShapeError
	if !errors.As(err, &shapeErr) || !errors.Is(err, pointnet.ErrShapeMismatch) {
		t.Errorf("Forward error = %v, want *ShapeError", err)
	}

	raw, err := tensor.NewRaw(tensor.Shape{2, 3, cfg.NumPoints}, tensor.Float32, tensor.Metal)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	_, err = bb.Forward(tensor.New[float32](raw, backend), nn.Eval)
	if !errors.Is(err, pointnet.ErrDeviceMismatch) {
		t.Errorf("Forward error = %v, want ErrDeviceMismatch", err)
	}

	single := tensor.Zeros[float32](tensor.Shape{1, 3, cfg.NumPoints}, backend)
	if _, err := bb.Forward(single, nn.Train); !errors.Is(err, pointnet.ErrBatchTooSmall) {
		t.Errorf("Forward error = %v, want ErrBatchTooSmall", err)
	}
}
