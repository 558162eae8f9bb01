package tensor

import (
	"fmt"
	"math"
)

// Add performs element-wise addition with broadcasting.
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	return t.binary(other, "Add", func(a, b float32) float32 { return a + b })
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor) Sub(other *Tensor) (*Tensor, error) {
	return t.binary(other, "Sub", func(a, b float32) float32 { return a - b })
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor) Mul(other *Tensor) (*Tensor, error) {
	return t.binary(other, "Mul", func(a, b float32) float32 { return a * b })
}

// binary applies f over the broadcast of t and other.
func (t *Tensor) binary(other *Tensor, op string, f func(a, b float32) float32) (*Tensor, error) {
	outShape, err := BroadcastShapes(t.shape, other.shape)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := newTensor(outShape)

	// Fast path: identical shapes.
	if t.shape.Equal(other.shape) {
		for i := range out.data {
			out.data[i] = f(t.data[i], other.data[i])
		}
		return out, nil
	}

	as := broadcastStrides(t.shape, outShape)
	bs := broadcastStrides(other.shape, outShape)
	idx := make([]int, len(outShape))
	ai, bi := 0, 0
	for i := range out.data {
		out.data[i] = f(t.data[ai], other.data[bi])
		for d := len(outShape) - 1; d >= 0; d-- {
			idx[d]++
			ai += as[d]
			bi += bs[d]
			if idx[d] < outShape[d] {
				break
			}
			ai -= as[d] * outShape[d]
			bi -= bs[d] * outShape[d]
			idx[d] = 0
		}
	}
	return out, nil
}

// Map returns a new tensor with f applied to every element.
func (t *Tensor) Map(f func(float32) float32) *Tensor {
	out := newTensor(t.shape)
	for i, v := range t.data {
		out.data[i] = f(v)
	}
	return out
}

// MulScalar multiplies every element by s.
func (t *Tensor) MulScalar(s float32) *Tensor {
	return t.Map(func(v float32) float32 { return v * s })
}

// AddScalar adds s to every element.
func (t *Tensor) AddScalar(s float32) *Tensor {
	return t.Map(func(v float32) float32 { return v + s })
}

// Rsqrt computes 1/sqrt(x) element-wise.
func (t *Tensor) Rsqrt() *Tensor {
	return t.Map(func(v float32) float32 { return float32(1 / math.Sqrt(float64(v))) })
}

// GELU applies the Gaussian Error Linear Unit, exact form:
//
//	GELU(x) = 0.5 * x * (1 + erf(x / sqrt(2)))
func (t *Tensor) GELU() *Tensor {
	return t.Map(func(v float32) float32 {
		x := float64(v)
		return float32(0.5 * x * (1 + math.Erf(x/math.Sqrt2)))
	})
}

// MaskedFill returns a copy of t where every position with mask == 0 is
// replaced by value.
//
// The mask must broadcast to t's shape without growing it: a mask whose
// broadcast with t yields a different shape is rejected rather than
// silently expanding t.
func (t *Tensor) MaskedFill(mask *Tensor, value float32) (*Tensor, error) {
	outShape, err := BroadcastShapes(t.shape, mask.shape)
	if err != nil {
		return nil, fmt.Errorf("MaskedFill: %w", err)
	}
	if !outShape.Equal(t.shape) || len(mask.shape) > len(t.shape) {
		return nil, fmt.Errorf("MaskedFill: %w: mask %v does not broadcast to %v",
			ErrShapeMismatch, mask.shape, t.shape)
	}

	out := t.Clone()
	ms := broadcastStrides(mask.shape, t.shape)
	idx := make([]int, len(t.shape))
	mi := 0
	for i := range out.data {
		if mask.data[mi] == 0 {
			out.data[i] = value
		}
		for d := len(t.shape) - 1; d >= 0; d-- {
			idx[d]++
			mi += ms[d]
			if idx[d] < t.shape[d] {
				break
			}
			mi -= ms[d] * t.shape[d]
			idx[d] = 0
		}
	}
	return out, nil
}
