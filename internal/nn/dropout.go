package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/encoder/internal/tensor"
)

// Dropout zeroes elements with probability P during training and scales the
// survivors by 1/(1-P). In evaluation mode it is the identity.
//
// Modules start in evaluation mode; call SetTraining(true) to enable it.
type Dropout struct {
	P        float32
	training bool
	rng      *rand.Rand
}

// NewDropout creates a Dropout layer. p must be in [0, 1].
func NewDropout(p float32, rng *rand.Rand) (*Dropout, error) {
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("Dropout: %w: probability must be in [0, 1], got %g", ErrInvalidConfig, p)
	}
	return &Dropout{P: p, rng: rng}, nil
}

// SetTraining switches between training and evaluation behavior.
func (d *Dropout) SetTraining(training bool) {
	d.training = training
}

// Training reports whether the layer is in training mode.
func (d *Dropout) Training() bool {
	return d.training
}

// Forward applies dropout.
func (d *Dropout) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if !d.training || d.P == 0 {
		return input, nil
	}
	if d.P == 1 {
		return tensor.Zeros(input.Shape()), nil
	}

	keep := 1 - float64(d.P)
	scale := float32(1 / keep)
	return input.Map(func(v float32) float32 {
		if d.rng.Float64() < keep {
			return v * scale
		}
		return 0
	}), nil
}

// Parameters returns nil (Dropout has no trainable parameters).
func (d *Dropout) Parameters() []*Parameter {
	return nil
}
