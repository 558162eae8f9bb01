package tensor

import (
	"fmt"
	"runtime"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/encoder/internal/parallel"
)

// batchConfig fans batched GEMMs out one matrix per task.
var batchConfig = parallel.Config{
	Enabled:      runtime.NumCPU() > 1,
	NumWorkers:   runtime.NumCPU(),
	MinChunkSize: 1,
}

// gemm computes c = op(a) @ op(b) for row-major matrices stored in flat slices.
func gemm(transB bool, m, k, n int, a, b, c []float32) {
	bm := blas32.General{Rows: k, Cols: n, Stride: n, Data: b}
	tb := blas.NoTrans
	if transB {
		bm = blas32.General{Rows: n, Cols: k, Stride: k, Data: b}
		tb = blas.Trans
	}
	blas32.Gemm(blas.NoTrans, tb, 1,
		blas32.General{Rows: m, Cols: k, Stride: k, Data: a},
		bm,
		0,
		blas32.General{Rows: m, Cols: n, Stride: n, Data: c},
	)
}

// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] → [M, N].
func (t *Tensor) MatMul(other *Tensor) (*Tensor, error) {
	return t.matmul2D(other, false, "MatMul")
}

// MatMulT multiplies by the transpose of other: [M, K] @ [N, K]^T → [M, N].
//
// Linear layers store weights as [out, in]; this avoids materializing W^T.
func (t *Tensor) MatMulT(other *Tensor) (*Tensor, error) {
	return t.matmul2D(other, true, "MatMulT")
}

func (t *Tensor) matmul2D(other *Tensor, transB bool, op string) (*Tensor, error) {
	if len(t.shape) != 2 || len(other.shape) != 2 {
		return nil, fmt.Errorf("%s: %w: expected 2D operands, got %v and %v",
			op, ErrShapeMismatch, t.shape, other.shape)
	}
	m, k := t.shape[0], t.shape[1]
	kb, n := other.shape[0], other.shape[1]
	if transB {
		n, kb = kb, n
	}
	if k != kb {
		return nil, fmt.Errorf("%s: %w: inner dimensions %d and %d differ (%v, %v)",
			op, ErrShapeMismatch, k, kb, t.shape, other.shape)
	}

	out := newTensor(Shape{m, n})
	gemm(transB, m, k, n, t.data, other.data, out.data)
	return out, nil
}

// BatchMatMul multiplies the trailing matrices of two tensors with equal
// leading dimensions: [..., M, K] @ [..., K, N] → [..., M, N].
//
// Example:
//
//	weights := tensor.Zeros(tensor.Shape{2, 8, 10, 10})
//	v := tensor.Zeros(tensor.Shape{2, 8, 10, 64})
//	out, _ := weights.BatchMatMul(v) // [2, 8, 10, 64]
func (t *Tensor) BatchMatMul(other *Tensor) (*Tensor, error) {
	return t.batchMatMul(other, false, "BatchMatMul")
}

// BatchMatMulT is BatchMatMul with the trailing matrices of other
// transposed: [..., M, K] @ [..., N, K]^T → [..., M, N].
func (t *Tensor) BatchMatMulT(other *Tensor) (*Tensor, error) {
	return t.batchMatMul(other, true, "BatchMatMulT")
}

func (t *Tensor) batchMatMul(other *Tensor, transB bool, op string) (*Tensor, error) {
	rank := len(t.shape)
	if rank < 3 || len(other.shape) != rank {
		return nil, fmt.Errorf("%s: %w: expected operands of equal rank >= 3, got %v and %v",
			op, ErrShapeMismatch, t.shape, other.shape)
	}
	lead := Shape(t.shape[:rank-2])
	if !lead.Equal(other.shape[:rank-2]) {
		return nil, fmt.Errorf("%s: %w: batch dimensions %v and %v differ",
			op, ErrShapeMismatch, t.shape[:rank-2], other.shape[:rank-2])
	}

	m, k := t.shape[rank-2], t.shape[rank-1]
	kb, n := other.shape[rank-2], other.shape[rank-1]
	if transB {
		n, kb = kb, n
	}
	if k != kb {
		return nil, fmt.Errorf("%s: %w: inner dimensions %d and %d differ (%v, %v)",
			op, ErrShapeMismatch, k, kb, t.shape, other.shape)
	}

	outShape := append(lead.Clone(), m, n)
	out := newTensor(outShape)

	aSize, bSize, cSize := m*k, k*n, m*n
	parallel.For(lead.NumElements(), func(i int) {
		gemm(transB, m, k, n,
			t.data[i*aSize:(i+1)*aSize],
			other.data[i*bSize:(i+1)*bSize],
			out.data[i*cSize:(i+1)*cSize],
		)
	}, batchConfig)

	return out, nil
}
