// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/encoder/internal/nn"
	"github.com/born-ml/encoder/internal/tensor"
)

// ErrInvalidConfig is wrapped by construction errors.
var ErrInvalidConfig = nn.ErrInvalidConfig

// ErrTokenOutOfRange is wrapped when an Embedding lookup id has no row.
var ErrTokenOutOfRange = nn.ErrTokenOutOfRange

// Module interface defines the common interface for all neural network modules.
type Module = nn.Module

// Trainable is implemented by modules whose behavior depends on the mode.
type Trainable = nn.Trainable

// Parameter represents a trainable parameter in a neural network.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return nn.NewParameter(name, t)
}

// CountParameters returns the total number of scalars in params.
func CountParameters(params []*Parameter) int {
	return nn.CountParameters(params)
}

// NewRand returns a deterministic generator for initialization and dropout.
func NewRand(seed uint64) *rand.Rand {
	return nn.NewRand(seed)
}

// Initialization

// XavierBound returns sqrt(6 / (fanIn + fanOut)).
func XavierBound(fanIn, fanOut int) float64 {
	return nn.XavierBound(fanIn, fanOut)
}

// Xavier draws a tensor from U(-XavierBound, XavierBound).
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Tensor {
	return nn.Xavier(fanIn, fanOut, shape, rng)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear creates a new linear layer with Xavier weights and zero bias.
//
// Example:
//
//	layer, err := nn.NewLinear(512, 1536, rng)
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand) (*Linear, error) {
	return nn.NewLinear(inFeatures, outFeatures, rng)
}

// LayerNorm normalizes over the last dimension with learnable scale and shift.
type LayerNorm = nn.LayerNorm

// DefaultNormEps is the LayerNorm epsilon used when none is configured.
const DefaultNormEps = nn.DefaultNormEps

// NewLayerNorm creates a LayerNorm over the trailing dim.
func NewLayerNorm(dim int, epsilon float32) (*LayerNorm, error) {
	return nn.NewLayerNorm(dim, epsilon)
}

// GELU is the exact (erf) Gaussian Error Linear Unit.
type GELU = nn.GELU

// NewGELU creates a GELU activation.
func NewGELU() *GELU {
	return nn.NewGELU()
}

// Dropout zeroes elements with probability P in training mode.
type Dropout = nn.Dropout

// NewDropout creates a dropout layer with p in [0, 1].
func NewDropout(p float32, rng *rand.Rand) (*Dropout, error) {
	return nn.NewDropout(p, rng)
}

// Composition

// ResidualAdd computes Fn(x) + x.
type ResidualAdd = nn.ResidualAdd

// NewResidualAdd wraps fn in a residual connection.
func NewResidualAdd(fn Module) *ResidualAdd {
	return nn.NewResidualAdd(fn)
}

// Sequential applies modules in order.
type Sequential = nn.Sequential

// NewSequential creates a container that applies modules in order.
//
// Example:
//
//	model := nn.NewSequential(linear1, nn.NewGELU(), linear2)
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}
