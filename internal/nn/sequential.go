package nn

import (
	"fmt"
	"strconv"

	"github.com/born-ml/encoder/internal/tensor"
)

// Sequential is an explicit ordered list of owned modules. Each module's
// output becomes the next module's input.
//
// Example:
//
//	path := nn.NewSequential(norm, mlp, dropout)
//	output, err := path.Forward(input)
//
// This is equivalent to:
//
//	h1, _ := norm.Forward(input)
//	h2, _ := mlp.Forward(h1)
//	output, _ := dropout.Forward(h2)
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{
		modules: modules,
	}
}

// Forward applies all modules in order. The first failing module aborts
// the pass and its error is returned with the module index.
func (s *Sequential) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	output := input
	for i, module := range s.modules {
		var err error
		if output, err = module.Forward(output); err != nil {
			return nil, fmt.Errorf("Sequential[%d]: %w", i, err)
		}
	}
	return output, nil
}

// SetTraining forwards the mode to every module that has one.
func (s *Sequential) SetTraining(training bool) {
	for _, m := range s.modules {
		setTraining(m, training)
	}
}

// Parameters returns all trainable parameters, prefixed with the index of
// the owning module ("0.gamma", "1.linear1.weight", ...).
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for i, module := range s.modules {
		params = append(params, prefixed(strconv.Itoa(i), module.Parameters())...)
	}
	return params
}

// Len returns the number of modules in the sequence.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}
