package nn

import (
	"github.com/born-ml/encoder/internal/tensor"
)

// GELU is a Gaussian Error Linear Unit activation module (exact erf form).
//
//	GELU(x) = 0.5 * x * (1 + erf(x / sqrt(2)))
type GELU struct{}

// NewGELU creates a new GELU activation module.
func NewGELU() *GELU {
	return &GELU{}
}

// Forward applies GELU element-wise.
func (g *GELU) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	return input.GELU(), nil
}

// Parameters returns nil (GELU has no trainable parameters).
func (g *GELU) Parameters() []*Parameter {
	return nil
}
