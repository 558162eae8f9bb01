package nn

import (
	"github.com/born-ml/encoder/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// The forward computation only reads parameters. An external optimizer may
// overwrite Tensor().Data() between forward calls.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
type Parameter struct {
	name   string         // Parameter name (e.g., "weight", "qkv_proj.bias")
	tensor *tensor.Tensor // The parameter tensor
}

// NewParameter creates a new trainable parameter.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}

// NumElements returns the number of scalars in the parameter.
func (p *Parameter) NumElements() int {
	return p.tensor.NumElements()
}

// prefixed returns views of params whose names carry prefix.
// The views share the underlying tensors.
func prefixed(prefix string, params []*Parameter) []*Parameter {
	out := make([]*Parameter, len(params))
	for i, p := range params {
		out[i] = &Parameter{name: prefix + "." + p.name, tensor: p.tensor}
	}
	return out
}

// CountParameters sums the element counts of params.
func CountParameters(params []*Parameter) int {
	n := 0
	for _, p := range params {
		n += p.NumElements()
	}
	return n
}
