package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/encoder/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x has shape [..., in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y has shape [..., out_features]
//
// Weights are initialized using Xavier/Glorot uniform initialization.
// Biases are initialized to zeros.
//
// Example:
//
//	layer, err := nn.NewLinear(512, 1536, rng)
//	output, err := layer.Forward(x) // [2, 10, 512] -> [2, 10, 1536]
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features]
}

// NewLinear creates a new Linear layer.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand) (*Linear, error) {
	if inFeatures <= 0 || outFeatures <= 0 {
		return nil, fmt.Errorf("Linear: %w: features must be positive, got in=%d out=%d",
			ErrInvalidConfig, inFeatures, outFeatures)
	}

	weight := Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, rng)
	bias := tensor.Zeros(tensor.Shape{outFeatures})

	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
	}, nil
}

// Forward computes the output of the linear layer.
//
// Leading dimensions are flattened for the matrix product and restored on
// the way out.
func (l *Linear) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	shape := input.Shape()
	if len(shape) == 0 || shape[len(shape)-1] != l.inFeatures {
		return nil, fmt.Errorf("Linear.Forward: %w: expected input [..., %d], got %v",
			tensor.ErrShapeMismatch, l.inFeatures, shape)
	}

	rows := input.NumElements() / l.inFeatures
	x2d, err := input.Reshape(rows, l.inFeatures)
	if err != nil {
		return nil, err
	}

	out, err := x2d.MatMulT(l.weight.Tensor())
	if err != nil {
		return nil, fmt.Errorf("Linear.Forward: %w", err)
	}
	out, err = out.Add(l.bias.Tensor())
	if err != nil {
		return nil, fmt.Errorf("Linear.Forward: %w", err)
	}

	outShape := shape.Clone()
	outShape[len(outShape)-1] = l.outFeatures
	return out.Reshape(outShape...)
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}
