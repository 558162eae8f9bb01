package tensor

import (
	"fmt"
	"math"

	"github.com/born-ml/encoder/internal/parallel"
)

// axisLayout splits a shape around dim into (outer, size, inner) extents.
func (t *Tensor) axisLayout(op string, dim int) (d, outer, size, inner int, err error) {
	d, err = normalizeDim(dim, len(t.shape))
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	outer = Shape(t.shape[:d]).NumElements()
	inner = Shape(t.shape[d+1:]).NumElements()
	return d, outer, t.shape[d], inner, nil
}

// Softmax normalizes along dim so that every slice sums to 1.
//
// The maximum of each slice is subtracted before exponentiation, so very
// negative entries (masked logits) contribute exactly zero.
func (t *Tensor) Softmax(dim int) (*Tensor, error) {
	_, outer, size, inner, err := t.axisLayout("Softmax", dim)
	if err != nil {
		return nil, err
	}

	out := newTensor(t.shape)
	parallel.ForBatch(outer, inner, func(o, i int) {
		base := o*size*inner + i

		maxVal := float32(math.Inf(-1))
		for k := 0; k < size; k++ {
			if v := t.data[base+k*inner]; v > maxVal {
				maxVal = v
			}
		}

		var sum float64
		for k := 0; k < size; k++ {
			e := math.Exp(float64(t.data[base+k*inner] - maxVal))
			out.data[base+k*inner] = float32(e)
			sum += e
		}

		inv := float32(1 / sum)
		for k := 0; k < size; k++ {
			out.data[base+k*inner] *= inv
		}
	}, parallel.DefaultConfig())

	return out, nil
}

// SumDim sums along dim. With keepDim the reduced axis stays with size 1.
func (t *Tensor) SumDim(dim int, keepDim bool) (*Tensor, error) {
	return t.reduce("SumDim", dim, keepDim, false)
}

// MeanDim averages along dim. With keepDim the reduced axis stays with size 1.
func (t *Tensor) MeanDim(dim int, keepDim bool) (*Tensor, error) {
	return t.reduce("MeanDim", dim, keepDim, true)
}

func (t *Tensor) reduce(op string, dim int, keepDim, mean bool) (*Tensor, error) {
	d, outer, size, inner, err := t.axisLayout(op, dim)
	if err != nil {
		return nil, err
	}

	var outShape Shape
	if keepDim {
		outShape = t.shape.Clone()
		outShape[d] = 1
	} else {
		outShape = append(t.shape[:d:d], t.shape[d+1:]...)
	}

	out := newTensor(outShape)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			var acc float64
			for k := 0; k < size; k++ {
				acc += float64(t.data[o*size*inner+k*inner+i])
			}
			if mean {
				acc /= float64(size)
			}
			out.data[o*inner+i] = float32(acc)
		}
	}
	return out, nil
}
