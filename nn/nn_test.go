// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"errors"
	"testing"

	"github.com/born-ml/encoder/nn"
	"github.com/born-ml/encoder/tensor"
)

// TestModuleInterface verifies that concrete types implement Module.
func TestModuleInterface(t *testing.T) {
	rng := nn.NewRand(1)

	linear, err := nn.NewLinear(8, 8, rng)
	if err != nil {
		t.Fatal(err)
	}
	mlp, err := nn.NewMLP(8, 2, 0, rng)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		module nn.Module
	}{
		{name: "Linear", module: linear},
		{name: "MLP", module: mlp},
		{name: "ResidualAdd", module: nn.NewResidualAdd(mlp)},
		{name: "Sequential", module: nn.NewSequential(linear, nn.NewGELU())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tensor.Randn(tensor.Shape{2, 3, 8}, rng)
			out, err := tt.module.Forward(input)
			if err != nil {
				t.Fatalf("Forward failed: %v", err)
			}
			if !out.Shape().Equal(input.Shape()) {
				t.Errorf("Forward shape = %v, want %v", out.Shape(), input.Shape())
			}
		})
	}
}

func TestEncoder(t *testing.T) {
	rng := nn.NewRand(42)
	enc, err := nn.NewEncoder(nn.EncoderConfig{
		Block: nn.BlockConfig{Dim: 16, NumHeads: 4},
		Depth: 2,
	}, rng)
	if err != nil {
		t.Fatal(err)
	}

	x := tensor.Randn(tensor.Shape{2, 5, 16}, rng)
	out, weights, err := enc.ForwardWithWeights(x, nn.CausalMask(5))
	if err != nil {
		t.Fatalf("ForwardWithWeights failed: %v", err)
	}
	if !out.Shape().Equal(tensor.Shape{2, 5, 16}) {
		t.Errorf("output shape = %v", out.Shape())
	}
	if len(weights) != 2 {
		t.Errorf("got %d weight tensors, want 2", len(weights))
	}
}

func TestNewMultiheadAttention_Indivisible(t *testing.T) {
	_, err := nn.NewMultiheadAttention(10, 10, 3, nn.NewRand(1))
	if !errors.Is(err, nn.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}
