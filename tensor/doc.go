// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the float32 tensors the encoder layers operate on.
//
// # Overview
//
// Tensors are dense, row-major and always float32. This package provides:
//   - Construction: Zeros, Ones, Full, FromSlice, Uniform, Randn
//   - NumPy-style broadcasting for Add, Sub, Mul and MaskedFill
//   - Layout: Reshape, Transpose (permute), Chunk
//   - Linear algebra: MatMul, BatchMatMul (gonum BLAS, batch-parallel)
//   - Reductions: Softmax, SumDim, MeanDim
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
//	    x := tensor.Randn(tensor.Shape{2, 10, 512}, rng)
//	    y, err := x.Reshape(2, 10, 8, 64)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    y, err = y.Transpose(0, 2, 1, 3) // [2, 8, 10, 64]
//	}
//
// # Errors
//
// Operations on incompatible shapes return an error wrapping
// ErrShapeMismatch. Constructors panic on an invalid shape.
package tensor
