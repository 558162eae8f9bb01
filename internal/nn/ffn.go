package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/encoder/internal/tensor"
)

// DefaultExpansion is the MLP hidden-width multiplier used when none is given.
const DefaultExpansion = 4

// MLP implements the position-wise feed-forward transform.
//
// Architecture:
//
//	MLP(x) = Dropout(Linear2(Dropout(GELU(Linear1(x)))))
//
// Where:
//   - Linear1: [emb_size → hidden] (expansion, hidden = expansion * emb_size)
//   - GELU: Activation function
//   - Linear2: [hidden → emb_size] (projection back)
//
// Dropout is only active in training mode. Output shape equals input shape.
//
// Example:
//
//	mlp, err := nn.NewMLP(512, 4, 0.1, rng)
//	out, err := mlp.Forward(x) // [2, 10, 512] -> [2, 10, 512]
type MLP struct {
	Linear1 *Linear
	Act     *GELU
	Drop1   *Dropout
	Linear2 *Linear
	Drop2   *Dropout
	EmbSize int
	Hidden  int
}

// NewMLP creates a feed-forward transform whose hidden width is
// expansion*embSize. expansion 0 selects DefaultExpansion.
func NewMLP(embSize, expansion int, dropRate float32, rng *rand.Rand) (*MLP, error) {
	if expansion == 0 {
		expansion = DefaultExpansion
	}
	if expansion < 0 {
		return nil, fmt.Errorf("MLP: %w: expansion must be positive, got %d", ErrInvalidConfig, expansion)
	}
	return NewMLPWithHidden(embSize, expansion*embSize, dropRate, rng)
}

// NewMLPWithHidden creates a feed-forward transform with an explicit hidden
// width.
func NewMLPWithHidden(embSize, hidden int, dropRate float32, rng *rand.Rand) (*MLP, error) {
	linear1, err := NewLinear(embSize, hidden, rng)
	if err != nil {
		return nil, fmt.Errorf("MLP: %w", err)
	}
	linear2, err := NewLinear(hidden, embSize, rng)
	if err != nil {
		return nil, fmt.Errorf("MLP: %w", err)
	}
	drop1, err := NewDropout(dropRate, rng)
	if err != nil {
		return nil, fmt.Errorf("MLP: %w", err)
	}
	drop2, err := NewDropout(dropRate, rng)
	if err != nil {
		return nil, fmt.Errorf("MLP: %w", err)
	}

	return &MLP{
		Linear1: linear1,
		Act:     NewGELU(),
		Drop1:   drop1,
		Linear2: linear2,
		Drop2:   drop2,
		EmbSize: embSize,
		Hidden:  hidden,
	}, nil
}

// Forward applies the feed-forward transform to x [..., emb_size].
func (f *MLP) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	stages := [...]Module{f.Linear1, f.Act, f.Drop1, f.Linear2, f.Drop2}

	var err error
	for _, stage := range stages {
		if x, err = stage.Forward(x); err != nil {
			return nil, fmt.Errorf("MLP.Forward: %w", err)
		}
	}
	return x, nil
}

// SetTraining toggles both dropout stages.
func (f *MLP) SetTraining(training bool) {
	f.Drop1.SetTraining(training)
	f.Drop2.SetTraining(training)
}

// Parameters returns all trainable parameters (Linear1 and Linear2).
func (f *MLP) Parameters() []*Parameter {
	params := make([]*Parameter, 0, 4)
	params = append(params, prefixed("linear1", f.Linear1.Parameters())...)
	params = append(params, prefixed("linear2", f.Linear2.Parameters())...)
	return params
}
