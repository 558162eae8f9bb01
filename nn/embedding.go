// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/encoder/internal/nn"
)

// Embedding maps token ids to dense vectors.
type Embedding = nn.Embedding

// NewEmbedding creates an N(0, 1) initialized lookup table.
func NewEmbedding(numEmbeddings, embeddingDim int, rng *rand.Rand) (*Embedding, error) {
	return nn.NewEmbedding(numEmbeddings, embeddingDim, rng)
}

// SinusoidalPositionalEncoding adds fixed sin/cos position encodings.
type SinusoidalPositionalEncoding = nn.SinusoidalPositionalEncoding

// NewSinusoidalPositionalEncoding pre-computes encodings up to maxLen.
func NewSinusoidalPositionalEncoding(maxLen, dim int) (*SinusoidalPositionalEncoding, error) {
	return nn.NewSinusoidalPositionalEncoding(maxLen, dim)
}
