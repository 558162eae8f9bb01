package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/encoder/internal/tensor"
)

// MultiheadAttention implements multi-head self-attention with a single
// packed Q/K/V projection.
//
// Architecture:
//
//	qkv = x @ W_qkv^T + b_qkv                     [batch, seq, 3*embed_dim]
//	q, k, v = split(qkv)                           [batch, heads, seq, head_dim] each
//	out = Concat(SDPA(q, k, v, mask)) @ W_o^T + b_o
//
// The packed projection is laid out per head: for head h the slice
// [h*3*head_dim, (h+1)*3*head_dim) of the projection holds that head's
// query, key and value columns in that order.
//
// Example:
//
//	mha, err := nn.NewMultiheadAttention(512, 512, 8, nn.NewRand(42))
//	out, err := mha.Forward(x, nil)                    // [2, 10, 512]
//	out, weights, err := mha.ForwardWithWeights(x, nil) // weights: [2, 8, 10, 10]
type MultiheadAttention struct {
	QKVProj  *Linear // [3*embed_dim, input_dim]
	OutProj  *Linear // [embed_dim, embed_dim]
	InputDim int
	EmbedDim int
	NumHeads int
	HeadDim  int
}

// NewMultiheadAttention creates a new multi-head attention module.
//
// Parameters:
//   - inputDim: Width of the incoming embedding tensor
//   - embedDim: Total attention width (must be divisible by numHeads)
//   - numHeads: Number of attention heads
//   - rng: Source for Xavier-uniform weight initialization
//
// Biases start at zero.
func NewMultiheadAttention(inputDim, embedDim, numHeads int, rng *rand.Rand) (*MultiheadAttention, error) {
	if inputDim <= 0 || embedDim <= 0 || numHeads <= 0 {
		return nil, fmt.Errorf("MultiheadAttention: %w: dimensions must be positive, got input_dim=%d embed_dim=%d num_heads=%d",
			ErrInvalidConfig, inputDim, embedDim, numHeads)
	}
	if embedDim%numHeads != 0 {
		return nil, fmt.Errorf("MultiheadAttention: %w: embed_dim (%d) must be divisible by num_heads (%d)",
			ErrInvalidConfig, embedDim, numHeads)
	}

	qkv, err := NewLinear(inputDim, 3*embedDim, rng)
	if err != nil {
		return nil, err
	}
	out, err := NewLinear(embedDim, embedDim, rng)
	if err != nil {
		return nil, err
	}

	return &MultiheadAttention{
		QKVProj:  qkv,
		OutProj:  out,
		InputDim: inputDim,
		EmbedDim: embedDim,
		NumHeads: numHeads,
		HeadDim:  embedDim / numHeads,
	}, nil
}

// Forward computes self-attention over x [batch, seq, input_dim].
//
// Returns [batch, seq, embed_dim]. mask may be nil.
func (m *MultiheadAttention) Forward(x, mask *tensor.Tensor) (*tensor.Tensor, error) {
	out, _, err := m.ForwardWithWeights(x, mask)
	return out, err
}

// ForwardWithWeights computes self-attention and also returns the
// normalized attention weights [batch, heads, seq, seq].
func (m *MultiheadAttention) ForwardWithWeights(x, mask *tensor.Tensor) (*tensor.Tensor, *tensor.Tensor, error) {
	if x.Rank() != 3 || x.Dim(-1) != m.InputDim {
		return nil, nil, fmt.Errorf("MultiheadAttention.Forward: %w: expected input [batch, seq, %d], got %v",
			tensor.ErrShapeMismatch, m.InputDim, x.Shape())
	}
	batch, seq := x.Dim(0), x.Dim(1)

	// 1. Packed projection [batch, seq, 3*embed_dim]
	qkv, err := m.QKVProj.Forward(x)
	if err != nil {
		return nil, nil, err
	}

	// 2. [batch, seq, heads, 3*head_dim] -> [batch, heads, seq, 3*head_dim] -> Q, K, V
	qkv, err = qkv.Reshape(batch, seq, m.NumHeads, 3*m.HeadDim)
	if err != nil {
		return nil, nil, err
	}
	qkv, err = qkv.Transpose(0, 2, 1, 3)
	if err != nil {
		return nil, nil, err
	}
	parts, err := qkv.Chunk(3, -1)
	if err != nil {
		return nil, nil, err
	}

	// 3. Attention per head
	values, weights, err := ScaledDotProductAttention(parts[0], parts[1], parts[2], mask)
	if err != nil {
		return nil, nil, err
	}

	// 4. Recombine heads [batch, seq, embed_dim]
	values, err = values.Transpose(0, 2, 1, 3)
	if err != nil {
		return nil, nil, err
	}
	values, err = values.Reshape(batch, seq, m.EmbedDim)
	if err != nil {
		return nil, nil, err
	}

	// 5. Output projection
	out, err := m.OutProj.Forward(values)
	if err != nil {
		return nil, nil, err
	}
	return out, weights, nil
}

// Parameters returns qkv_proj and o_proj weights and biases.
func (m *MultiheadAttention) Parameters() []*Parameter {
	params := make([]*Parameter, 0, 4)
	params = append(params, prefixed("qkv_proj", m.QKVProj.Parameters())...)
	params = append(params, prefixed("o_proj", m.OutProj.Parameters())...)
	return params
}
