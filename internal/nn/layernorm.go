package nn

import (
	"fmt"

	"github.com/born-ml/encoder/internal/tensor"
)

// DefaultNormEps is the LayerNorm epsilon used when none is configured.
const DefaultNormEps = 1e-5

// LayerNorm applies Layer Normalization over the last dimension.
//
// Formula: Y = gamma * (X - mean(X)) / sqrt(var(X) + eps) + beta
//
// gamma is initialized to ones, beta to zeros.
//
// Example:
//
//	ln, _ := nn.NewLayerNorm(512, 1e-5)
//	output, err := ln.Forward(hidden) // [..., 512] -> [..., 512]
type LayerNorm struct {
	Gamma   *Parameter // learnable scale [d_model]
	Beta    *Parameter // learnable shift [d_model]
	Epsilon float32    // numerical stability constant
	dim     int
}

// NewLayerNorm creates a new LayerNorm layer.
func NewLayerNorm(dim int, epsilon float32) (*LayerNorm, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("LayerNorm: %w: dim must be positive, got %d", ErrInvalidConfig, dim)
	}
	if epsilon <= 0 {
		return nil, fmt.Errorf("LayerNorm: %w: epsilon must be positive, got %g", ErrInvalidConfig, epsilon)
	}

	return &LayerNorm{
		Gamma:   NewParameter("gamma", tensor.Ones(tensor.Shape{dim})),
		Beta:    NewParameter("beta", tensor.Zeros(tensor.Shape{dim})),
		Epsilon: epsilon,
		dim:     dim,
	}, nil
}

// Forward applies LayerNorm to the input tensor.
//
// Algorithm:
//  1. mean = mean(x) along last dimension (keepdim)
//  2. x_centered = x - mean
//  3. variance = mean(x_centered^2) along last dimension
//  4. x_norm = x_centered * rsqrt(variance + epsilon)
//  5. output = gamma * x_norm + beta
func (l *LayerNorm) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x.Rank() == 0 || x.Dim(-1) != l.dim {
		return nil, fmt.Errorf("LayerNorm.Forward: %w: expected input [..., %d], got %v",
			tensor.ErrShapeMismatch, l.dim, x.Shape())
	}

	mean, err := x.MeanDim(-1, true)
	if err != nil {
		return nil, err
	}
	centered, err := x.Sub(mean)
	if err != nil {
		return nil, err
	}
	sq, err := centered.Mul(centered)
	if err != nil {
		return nil, err
	}
	variance, err := sq.MeanDim(-1, true)
	if err != nil {
		return nil, err
	}

	normed, err := centered.Mul(variance.AddScalar(l.Epsilon).Rsqrt())
	if err != nil {
		return nil, err
	}

	// gamma and beta are [d_model]; broadcasting aligns them with the last axis.
	scaled, err := normed.Mul(l.Gamma.Tensor())
	if err != nil {
		return nil, err
	}
	return scaled.Add(l.Beta.Tensor())
}

// Parameters returns the learnable parameters (gamma and beta).
func (l *LayerNorm) Parameters() []*Parameter {
	return []*Parameter{l.Gamma, l.Beta}
}
