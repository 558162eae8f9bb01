package tensor

import "math/rand/v2"

// Zeros creates a tensor filled with zeros.
// Panics if the shape has a non-positive dimension.
//
// Example:
//
//	t := tensor.Zeros(tensor.Shape{3, 4})
func Zeros(shape Shape) *Tensor {
	return newTensor(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full(tensor.Shape{2, 2}, 3.14)
func Full(shape Shape, value float32) *Tensor {
	t := newTensor(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Uniform creates a tensor with values drawn from U(low, high) using rng.
//
// The same rng state always yields the same tensor, which is what makes
// seeded parameter initialization reproducible.
func Uniform(shape Shape, low, high float64, rng *rand.Rand) *Tensor {
	t := newTensor(shape)
	span := high - low
	for i := range t.data {
		t.data[i] = float32(low + rng.Float64()*span)
	}
	return t
}

// Randn creates a tensor with values drawn from N(0, 1) using rng.
func Randn(shape Shape, rng *rand.Rand) *Tensor {
	t := newTensor(shape)
	for i := range t.data {
		t.data[i] = float32(rng.NormFloat64())
	}
	return t
}
