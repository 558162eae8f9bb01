// Package nn implements the Transformer encoder building blocks.
//
// This package provides:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named trainable tensors
//   - Linear, LayerNorm, GELU, Dropout: Primitive layers
//   - MultiheadAttention: Packed-QKV scaled dot-product self-attention
//   - MLP: Position-wise feed-forward transform
//   - ResidualAdd, Sequential: Explicit composition
//   - EncoderBlock, Encoder: The encoder block and its stack
//
// Forward passes are pure functions of the input, the owned parameters and
// the optional mask. Contract violations are returned as errors wrapping
// ErrInvalidConfig (construction) or tensor.ErrShapeMismatch (forward).
package nn

import (
	"errors"

	"github.com/born-ml/encoder/internal/tensor"
)

// ErrInvalidConfig is returned (wrapped) when a module is constructed with
// dimensions or rates that violate its invariants.
var ErrInvalidConfig = errors.New("invalid configuration")

// Module is the base interface for all neural network components.
//
// Modules can be composed to build larger transforms:
//
//	ffn := nn.NewSequential(
//	    nn.NewLayerNorm(512, 1e-5),
//	    mlp,
//	    nn.NewDropout(0.1, rng),
//	)
//	out, err := nn.NewResidualAdd(ffn).Forward(x)
type Module interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor) (*tensor.Tensor, error)

	// Parameters returns all trainable parameters of this module.
	// Returns an empty slice for modules without trainable parameters.
	Parameters() []*Parameter
}

// Trainable is implemented by modules whose behavior differs between
// training and evaluation (dropout).
type Trainable interface {
	SetTraining(training bool)
}

// setTraining forwards the mode to m if it cares about it.
func setTraining(m any, training bool) {
	if t, ok := m.(Trainable); ok {
		t.SetTraining(training)
	}
}
