package tensor

import "fmt"

// Reshape returns a tensor with the same data and a new shape.
// At most one dimension may be -1; it is inferred from the element count.
//
// Example:
//
//	x := tensor.Zeros(tensor.Shape{2, 10, 512})
//	y, err := x.Reshape(2, 10, 8, 64)
func (t *Tensor) Reshape(dims ...int) (*Tensor, error) {
	shape := make(Shape, len(dims))
	copy(shape, dims)

	infer := -1
	known := 1
	for i, d := range shape {
		switch {
		case d == -1 && infer == -1:
			infer = i
		case d <= 0:
			return nil, fmt.Errorf("Reshape: %w: invalid target %v", ErrShapeMismatch, dims)
		default:
			known *= d
		}
	}
	if infer >= 0 {
		if known == 0 || len(t.data)%known != 0 {
			return nil, fmt.Errorf("Reshape: %w: cannot infer %v from %v", ErrShapeMismatch, dims, t.shape)
		}
		shape[infer] = len(t.data) / known
	}

	if shape.NumElements() != len(t.data) {
		return nil, fmt.Errorf("Reshape: %w: %v (%d elements) to %v",
			ErrShapeMismatch, t.shape, len(t.data), dims)
	}

	out := &Tensor{shape: shape, data: make([]float32, len(t.data))}
	copy(out.data, t.data)
	return out, nil
}

// Transpose permutes the axes of the tensor.
//
// With no arguments the last two axes are swapped. Otherwise axes must be
// a permutation of [0, rank).
//
// Example:
//
//	x := tensor.Zeros(tensor.Shape{2, 10, 8, 64})
//	y, _ := x.Transpose(0, 2, 1, 3) // [2, 8, 10, 64]
func (t *Tensor) Transpose(axes ...int) (*Tensor, error) {
	rank := len(t.shape)
	if len(axes) == 0 {
		if rank < 2 {
			return nil, fmt.Errorf("Transpose: %w: rank %d has no last two axes", ErrShapeMismatch, rank)
		}
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = i
		}
		axes[rank-1], axes[rank-2] = axes[rank-2], axes[rank-1]
	}

	if len(axes) != rank {
		return nil, fmt.Errorf("Transpose: %w: %d axes for rank %d", ErrShapeMismatch, len(axes), rank)
	}
	seen := make([]bool, rank)
	for _, a := range axes {
		if a < 0 || a >= rank || seen[a] {
			return nil, fmt.Errorf("Transpose: %w: %v is not a permutation", ErrShapeMismatch, axes)
		}
		seen[a] = true
	}

	outShape := make(Shape, rank)
	for i, a := range axes {
		outShape[i] = t.shape[a]
	}

	inStrides := t.shape.ComputeStrides()
	walk := make([]int, rank)
	for i, a := range axes {
		walk[i] = inStrides[a]
	}

	out := newTensor(outShape)
	idx := make([]int, rank)
	src := 0
	for i := range out.data {
		out.data[i] = t.data[src]
		for d := rank - 1; d >= 0; d-- {
			idx[d]++
			src += walk[d]
			if idx[d] < outShape[d] {
				break
			}
			src -= walk[d] * outShape[d]
			idx[d] = 0
		}
	}
	return out, nil
}

// Chunk splits the tensor into n equal parts along dim.
// The dimension size must be divisible by n.
//
// Example:
//
//	qkv := tensor.Zeros(tensor.Shape{2, 8, 10, 192})
//	parts, _ := qkv.Chunk(3, -1) // three [2, 8, 10, 64] tensors
func (t *Tensor) Chunk(n, dim int) ([]*Tensor, error) {
	d, err := normalizeDim(dim, len(t.shape))
	if err != nil {
		return nil, fmt.Errorf("Chunk: %w", err)
	}
	if n <= 0 || t.shape[d]%n != 0 {
		return nil, fmt.Errorf("Chunk: %w: dimension %d of size %d is not divisible into %d chunks",
			ErrShapeMismatch, d, t.shape[d], n)
	}

	outer := Shape(t.shape[:d]).NumElements()
	inner := Shape(t.shape[d+1:]).NumElements()
	size := t.shape[d] / n
	block := size * inner

	chunkShape := t.shape.Clone()
	chunkShape[d] = size

	chunks := make([]*Tensor, n)
	for c := range chunks {
		out := newTensor(chunkShape)
		for o := 0; o < outer; o++ {
			src := o*t.shape[d]*inner + c*block
			copy(out.data[o*block:(o+1)*block], t.data[src:src+block])
		}
		chunks[c] = out
	}
	return chunks, nil
}
