// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/encoder/internal/nn"
	"github.com/born-ml/encoder/internal/tensor"
)

// MaskedLogit replaces attention logits at hidden positions.
const MaskedLogit = nn.MaskedLogit

// ScaledDotProductAttention computes softmax(Q·Kᵀ/√d_k)·V.
//
// Q, K, V are [batch, heads, seq, head_dim]; mask is optional and
// broadcasts against [batch, heads, seq_q, seq_k]. Returns the output and
// the attention weights.
func ScaledDotProductAttention(q, k, v, mask *tensor.Tensor) (*tensor.Tensor, *tensor.Tensor, error) {
	return nn.ScaledDotProductAttention(q, k, v, mask)
}

// CausalMask returns a [1, 1, seq, seq] mask hiding future positions.
func CausalMask(seq int) *tensor.Tensor {
	return nn.CausalMask(seq)
}

// PaddingMask returns a [batch, 1, 1, seq] mask hiding positions at or past
// each sequence's length.
func PaddingMask(lengths []int, seq int) (*tensor.Tensor, error) {
	return nn.PaddingMask(lengths, seq)
}

// MultiheadAttention is self-attention with a packed QKV projection.
//
// Architecture:
//
//	x [B, S, input_dim] → QKVProj → [B, S, 3*embed_dim]
//	  → split per head → attention → merge heads → OutProj → [B, S, embed_dim]
type MultiheadAttention = nn.MultiheadAttention

// NewMultiheadAttention creates a self-attention layer.
//
// Returns an error wrapping ErrInvalidConfig when embedDim is not divisible
// by numHeads.
func NewMultiheadAttention(inputDim, embedDim, numHeads int, rng *rand.Rand) (*MultiheadAttention, error) {
	return nn.NewMultiheadAttention(inputDim, embedDim, numHeads, rng)
}

// MLP is the position-wise feed-forward transform.
type MLP = nn.MLP

// DefaultExpansion is the MLP hidden-width multiplier used when none is given.
const DefaultExpansion = nn.DefaultExpansion

// NewMLP creates a feed-forward transform of hidden width expansion*embSize.
func NewMLP(embSize, expansion int, dropRate float32, rng *rand.Rand) (*MLP, error) {
	return nn.NewMLP(embSize, expansion, dropRate, rng)
}

// NewMLPWithHidden creates a feed-forward transform with an explicit hidden width.
func NewMLPWithHidden(embSize, hidden int, dropRate float32, rng *rand.Rand) (*MLP, error) {
	return nn.NewMLPWithHidden(embSize, hidden, dropRate, rng)
}

// BlockConfig defines the configuration for an EncoderBlock.
//
// Fields:
//   - Dim: Embedding dimension (d_model, e.g., 512)
//   - NumHeads: Number of attention heads (e.g., 8)
//   - FFDim: MLP hidden dimension (0 = 4 * Dim)
//   - Dropout: Dropout rate (0 = no dropout)
//   - NormEps: LayerNorm epsilon (0 = 1e-5)
type BlockConfig = nn.BlockConfig

// EncoderBlock is a Pre-Norm Transformer encoder block.
//
// Architecture (Pre-Norm):
//
//	x → Norm → MHA → Dropout → + → Norm → MLP → Dropout → + → output
//	↑________________________|   ↑________________________|
type EncoderBlock = nn.EncoderBlock

// NewEncoderBlock creates a new encoder block.
func NewEncoderBlock(config BlockConfig, rng *rand.Rand) (*EncoderBlock, error) {
	return nn.NewEncoderBlock(config, rng)
}

// DefaultDepth is the number of encoder blocks when none is configured.
const DefaultDepth = nn.DefaultDepth

// EncoderConfig defines the configuration for an Encoder stack.
type EncoderConfig = nn.EncoderConfig

// EncoderOption configures optional Encoder behavior.
type EncoderOption = nn.EncoderOption

// WithLogger attaches a zerolog logger to the encoder.
var WithLogger = nn.WithLogger

// Encoder is a stack of independently parameterized encoder blocks.
type Encoder = nn.Encoder

// NewEncoder creates config.Depth encoder blocks.
//
// Example:
//
//	enc, err := nn.NewEncoder(nn.EncoderConfig{
//	    Block: nn.BlockConfig{Dim: 512, NumHeads: 8},
//	}, nn.NewRand(42))
func NewEncoder(config EncoderConfig, rng *rand.Rand, opts ...EncoderOption) (*Encoder, error) {
	return nn.NewEncoder(config, rng, opts...)
}
