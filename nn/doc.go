// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the Transformer encoder building blocks.
//
// # Overview
//
// This package contains:
//   - Attention: MultiheadAttention, ScaledDotProductAttention, masks
//   - Feed-forward: MLP (Linear -> GELU -> Dropout -> Linear -> Dropout)
//   - Composition: ResidualAdd, Sequential
//   - Encoder: EncoderBlock (Pre-Norm) and Encoder (stack of blocks)
//   - Layers: Linear, LayerNorm, GELU, Dropout, Embedding
//   - Utilities: Module interface, Parameter, Xavier, NewRand
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/encoder/nn"
//	    "github.com/born-ml/encoder/tensor"
//	)
//
//	func main() {
//	    rng := nn.NewRand(42)
//
//	    enc, err := nn.NewEncoder(nn.EncoderConfig{
//	        Block: nn.BlockConfig{Dim: 512, NumHeads: 8, Dropout: 0.1},
//	        Depth: 12,
//	    }, rng)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    x := tensor.Randn(tensor.Shape{2, 10, 512}, rng)
//	    out, weights, err := enc.ForwardWithWeights(x, nil)
//	    // out: [2, 10, 512], weights: 12 x [2, 8, 10, 10]
//	}
//
// # Masks
//
// Masks hold 1 for visible and 0 for hidden key positions and broadcast
// against the attention logits [batch, heads, seq, seq]:
//
//	causal := nn.CausalMask(seq)                   // [1, 1, seq, seq]
//	padding, err := nn.PaddingMask(lengths, seq)   // [batch, 1, 1, seq]
//
// # Training Mode
//
// Modules start in evaluation mode, where Dropout is the identity. Call
// SetTraining(true) on any composite to enable dropout in every child.
// Parameters are exposed for an external optimizer; there is no autodiff.
package nn
