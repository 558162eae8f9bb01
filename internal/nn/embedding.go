package nn

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/encoder/internal/tensor"
)

// ErrTokenOutOfRange is returned when a token id has no embedding row.
var ErrTokenOutOfRange = errors.New("token id out of range")

// Embedding is a lookup table that maps token ids to dense vectors,
// producing the embedding tensor the encoder consumes.
//
// Architecture:
//   - Weight: [NumEmbed, EmbedDim] learnable parameter, N(0, 1) initialized
//   - Forward: ids [batch][seq] -> embeddings [batch, seq, EmbedDim]
//
// Example:
//
//	embed, _ := nn.NewEmbedding(100277, 512, rng)
//	x, err := embed.Forward([][]int{{15339, 1917}}) // [1, 2, 512]
type Embedding struct {
	Weight   *Parameter // [NumEmbed, EmbedDim]
	NumEmbed int
	EmbedDim int
}

// NewEmbedding creates a new Embedding layer.
func NewEmbedding(numEmbeddings, embeddingDim int, rng *rand.Rand) (*Embedding, error) {
	if numEmbeddings <= 0 || embeddingDim <= 0 {
		return nil, fmt.Errorf("Embedding: %w: sizes must be positive, got %d x %d",
			ErrInvalidConfig, numEmbeddings, embeddingDim)
	}

	weight := tensor.Randn(tensor.Shape{numEmbeddings, embeddingDim}, rng)
	return &Embedding{
		Weight:   NewParameter("weight", weight),
		NumEmbed: numEmbeddings,
		EmbedDim: embeddingDim,
	}, nil
}

// Forward looks up every id. All sequences must have the same, non-zero
// length.
func (e *Embedding) Forward(ids [][]int) (*tensor.Tensor, error) {
	if len(ids) == 0 || len(ids[0]) == 0 {
		return nil, fmt.Errorf("Embedding.Forward: %w: empty batch", tensor.ErrShapeMismatch)
	}
	batch, seq := len(ids), len(ids[0])

	out := tensor.Zeros(tensor.Shape{batch, seq, e.EmbedDim})
	dst := out.Data()
	table := e.Weight.Tensor().Data()
	for b, row := range ids {
		if len(row) != seq {
			return nil, fmt.Errorf("Embedding.Forward: %w: sequence %d has length %d, want %d",
				tensor.ErrShapeMismatch, b, len(row), seq)
		}
		for s, id := range row {
			if id < 0 || id >= e.NumEmbed {
				return nil, fmt.Errorf("Embedding.Forward: %w: %d not in [0, %d)", ErrTokenOutOfRange, id, e.NumEmbed)
			}
			copy(dst[(b*seq+s)*e.EmbedDim:(b*seq+s+1)*e.EmbedDim], table[id*e.EmbedDim:(id+1)*e.EmbedDim])
		}
	}
	return out, nil
}

// Parameters returns the embedding table.
func (e *Embedding) Parameters() []*Parameter {
	return []*Parameter{e.Weight}
}
