package nn

import (
	"fmt"

	"github.com/born-ml/encoder/internal/tensor"
)

// ResidualAdd wraps a module with a skip connection:
//
//	output = Fn(x) + x
//
// Fn must preserve the shape of its input; anything else is an error
// rather than a broadcast.
type ResidualAdd struct {
	Fn Module
}

// NewResidualAdd wraps fn in a residual connection.
func NewResidualAdd(fn Module) *ResidualAdd {
	return &ResidualAdd{Fn: fn}
}

// Forward computes Fn(x) + x.
func (r *ResidualAdd) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return residual(x, r.Fn.Forward)
}

// SetTraining forwards the mode to the wrapped module.
func (r *ResidualAdd) SetTraining(training bool) {
	setTraining(r.Fn, training)
}

// Parameters returns the wrapped module's parameters.
func (r *ResidualAdd) Parameters() []*Parameter {
	return r.Fn.Parameters()
}

// residual adds x back onto fn(x) after checking the shapes agree.
func residual(x *tensor.Tensor, fn func(*tensor.Tensor) (*tensor.Tensor, error)) (*tensor.Tensor, error) {
	y, err := fn(x)
	if err != nil {
		return nil, err
	}
	if !y.Shape().Equal(x.Shape()) {
		return nil, fmt.Errorf("ResidualAdd: %w: inner transform maps %v to %v",
			tensor.ErrShapeMismatch, x.Shape(), y.Shape())
	}
	return y.Add(x)
}
