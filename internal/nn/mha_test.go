package nn

import (
	"testing"

	"github.com/born-ml/encoder/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMultiheadAttention_Scenario runs the reference configuration:
// embed_dim=512, num_heads=8, batch=2, seq_len=10.
func TestMultiheadAttention_Scenario(t *testing.T) {
	rng := NewRand(42)
	mha, err := NewMultiheadAttention(512, 512, 8, rng)
	require.NoError(t, err)
	assert.Equal(t, 64, mha.HeadDim)

	x := tensor.Randn(tensor.Shape{2, 10, 512}, rng)

	out, weights, err := mha.ForwardWithWeights(x, nil)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 10, 512}, out.Shape())
	assert.Equal(t, tensor.Shape{2, 8, 10, 10}, weights.Shape())
	assertRowsSumToOne(t, weights)

	plain, err := mha.Forward(x, nil)
	require.NoError(t, err)
	assert.True(t, plain.AllClose(out, 0))
}

func TestMultiheadAttention_OutputShapes(t *testing.T) {
	tests := []struct {
		name                         string
		inputDim, embedDim, numHeads int
		batch, seq                   int
	}{
		{name: "single head", inputDim: 16, embedDim: 16, numHeads: 1, batch: 1, seq: 3},
		{name: "input narrower than embed", inputDim: 24, embedDim: 64, numHeads: 4, batch: 2, seq: 5},
		{name: "input wider than embed", inputDim: 96, embedDim: 32, numHeads: 8, batch: 3, seq: 7},
		{name: "head per dim", inputDim: 12, embedDim: 12, numHeads: 12, batch: 2, seq: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := NewRand(9)
			mha, err := NewMultiheadAttention(tt.inputDim, tt.embedDim, tt.numHeads, rng)
			require.NoError(t, err)

			x := tensor.Randn(tensor.Shape{tt.batch, tt.seq, tt.inputDim}, rng)
			out, weights, err := mha.ForwardWithWeights(x, nil)
			require.NoError(t, err)
			assert.Equal(t, tensor.Shape{tt.batch, tt.seq, tt.embedDim}, out.Shape())
			assert.Equal(t, tensor.Shape{tt.batch, tt.numHeads, tt.seq, tt.seq}, weights.Shape())
			assertRowsSumToOne(t, weights)
		})
	}
}

func TestMultiheadAttention_RejectsIndivisibleHeads(t *testing.T) {
	mha, err := NewMultiheadAttention(10, 10, 3, NewRand(1))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, mha)

	_, err = NewMultiheadAttention(10, 10, 0, NewRand(1))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMultiheadAttention_RejectsInputDim(t *testing.T) {
	mha, err := NewMultiheadAttention(32, 32, 4, NewRand(1))
	require.NoError(t, err)

	_, err = mha.Forward(tensor.Zeros(tensor.Shape{2, 5, 31}), nil)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	_, err = mha.Forward(tensor.Zeros(tensor.Shape{10, 32}), nil)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestMultiheadAttention_Mask(t *testing.T) {
	rng := NewRand(5)
	mha, err := NewMultiheadAttention(32, 32, 4, rng)
	require.NoError(t, err)
	x := tensor.Randn(tensor.Shape{2, 4, 32}, rng)

	mask, err := PaddingMask([]int{1, 3}, 4)
	require.NoError(t, err)

	_, weights, err := mha.ForwardWithWeights(x, mask)
	require.NoError(t, err)
	assertRowsSumToOne(t, weights)

	for h := 0; h < 4; h++ {
		for i := 0; i < 4; i++ {
			assert.InDelta(t, 1.0, float64(weights.At(0, h, i, 0)), 1e-6)
			assert.Zero(t, weights.At(1, h, i, 3))
		}
	}

	_, err = mha.Forward(x, tensor.Ones(tensor.Shape{2, 1, 5, 5}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestMultiheadAttention_Initialization(t *testing.T) {
	a, err := NewMultiheadAttention(16, 32, 4, NewRand(11))
	require.NoError(t, err)
	b, err := NewMultiheadAttention(16, 32, 4, NewRand(11))
	require.NoError(t, err)

	pa, pb := a.Parameters(), b.Parameters()
	require.Len(t, pa, 4)

	names := make([]string, len(pa))
	for i := range pa {
		names[i] = pa[i].Name()
		assert.Equal(t, pa[i].Tensor().Data(), pb[i].Tensor().Data(), pa[i].Name())
	}
	assert.Equal(t, []string{"qkv_proj.weight", "qkv_proj.bias", "o_proj.weight", "o_proj.bias"}, names)

	assert.Equal(t, tensor.Shape{96, 16}, a.QKVProj.Weight().Tensor().Shape())
	assert.Equal(t, tensor.Shape{32, 32}, a.OutProj.Weight().Tensor().Shape())

	for _, v := range a.QKVProj.Bias().Tensor().Data() {
		assert.Zero(t, v)
	}
	bound := float32(XavierBound(16, 96))
	for _, v := range a.QKVProj.Weight().Tensor().Data() {
		assert.LessOrEqual(t, v, bound)
		assert.GreaterOrEqual(t, v, -bound)
	}
}

func TestMultiheadAttention_DoesNotMutateParameters(t *testing.T) {
	rng := NewRand(6)
	mha, err := NewMultiheadAttention(8, 8, 2, rng)
	require.NoError(t, err)

	before := make([][]float32, 0, 4)
	for _, p := range mha.Parameters() {
		before = append(before, append([]float32(nil), p.Tensor().Data()...))
	}

	_, err = mha.Forward(tensor.Randn(tensor.Shape{1, 3, 8}, rng), nil)
	require.NoError(t, err)

	for i, p := range mha.Parameters() {
		assert.Equal(t, before[i], p.Tensor().Data(), p.Name())
	}
}
