package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/encoder/internal/tensor"
)

// XavierBound returns the Xavier (Glorot) uniform bound
// sqrt(6 / (fan_in + fan_out)).
func XavierBound(fanIn, fanOut int) float64 {
	return math.Sqrt(6.0 / float64(fanIn+fanOut))
}

// Xavier initializes a weight tensor from
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))).
//
// Values come from rng, so the same seed always produces the same weights.
//
// Parameters:
//   - fanIn: Number of input units
//   - fanOut: Number of output units
//   - shape: Shape of the weight tensor
//   - rng: Source of randomness
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Tensor {
	bound := XavierBound(fanIn, fanOut)
	return tensor.Uniform(shape, -bound, bound, rng)
}

// NewRand returns a deterministic generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // weight init, not security
}
