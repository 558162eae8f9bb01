package nn

import (
	"testing"

	"github.com/born-ml/encoder/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identity returns its input unchanged.
type identity struct{}

func (identity) Forward(x *tensor.Tensor) (*tensor.Tensor, error) { return x, nil }
func (identity) Parameters() []*Parameter                        { return nil }

func TestXavier_Bound(t *testing.T) {
	fanIn, fanOut := 64, 192
	bound := XavierBound(fanIn, fanOut)
	assert.InDelta(t, 0.153093, bound, 1e-6)

	w := Xavier(fanIn, fanOut, tensor.Shape{fanOut, fanIn}, NewRand(1))
	var maxAbs float64
	for _, v := range w.Data() {
		a := float64(v)
		if a < 0 {
			a = -a
		}
		maxAbs = max(maxAbs, a)
	}
	assert.LessOrEqual(t, maxAbs, bound)
	// With 12288 draws the extremes approach the bound.
	assert.Greater(t, maxAbs, 0.95*bound)
}

func TestXavier_Reproducible(t *testing.T) {
	a := Xavier(8, 8, tensor.Shape{8, 8}, NewRand(42))
	b := Xavier(8, 8, tensor.Shape{8, 8}, NewRand(42))
	c := Xavier(8, 8, tensor.Shape{8, 8}, NewRand(43))

	assert.Equal(t, a.Data(), b.Data())
	assert.NotEqual(t, a.Data(), c.Data())
}

func TestLinear_Forward(t *testing.T) {
	layer, err := NewLinear(3, 2, NewRand(7))
	require.NoError(t, err)

	// Bias starts at zero.
	for _, v := range layer.Bias().Tensor().Data() {
		assert.Equal(t, float32(0), v)
	}

	w := layer.Weight().Tensor()
	copy(w.Data(), []float32{1, 0, -1, 2, 1, 0})
	copy(layer.Bias().Tensor().Data(), []float32{0.5, -0.5})

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 2, 3})
	require.NoError(t, err)

	y, err := layer.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 2, 2}, y.Shape())
	assert.InDeltaSlice(t, []float32{-1.5, 3.5, -1.5, 12.5}, y.Data(), 1e-6)
}

func TestLinear_Errors(t *testing.T) {
	_, err := NewLinear(0, 2, NewRand(1))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	layer, err := NewLinear(3, 2, NewRand(1))
	require.NoError(t, err)
	_, err = layer.Forward(tensor.Zeros(tensor.Shape{2, 4}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestLayerNorm_Basic(t *testing.T) {
	ln, err := NewLayerNorm(3, 1e-5)
	require.NoError(t, err)

	input, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)

	output, err := ln.Forward(input)
	require.NoError(t, err)

	// Each row [a, a+1, a+2] normalizes to [-1.2247, 0, 1.2247].
	want := []float32{-1.2247, 0, 1.2247, -1.2247, 0, 1.2247}
	assert.InDeltaSlice(t, want, output.Data(), 1e-3)
}

func TestLayerNorm_Statistics(t *testing.T) {
	ln, err := NewLayerNorm(64, 1e-5)
	require.NoError(t, err)

	x := tensor.Randn(tensor.Shape{2, 5, 64}, NewRand(3)).MulScalar(4).AddScalar(7)
	y, err := ln.Forward(x)
	require.NoError(t, err)

	mean, err := y.MeanDim(-1, false)
	require.NoError(t, err)
	sq, err := y.Mul(y)
	require.NoError(t, err)
	meanSq, err := sq.MeanDim(-1, false)
	require.NoError(t, err)

	for i := range mean.Data() {
		assert.InDelta(t, 0.0, float64(mean.Data()[i]), 1e-4)
		assert.InDelta(t, 1.0, float64(meanSq.Data()[i]), 1e-3)
	}
}

func TestLayerNorm_Errors(t *testing.T) {
	_, err := NewLayerNorm(4, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	ln, err := NewLayerNorm(4, 1e-5)
	require.NoError(t, err)
	_, err = ln.Forward(tensor.Zeros(tensor.Shape{2, 3}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestDropout(t *testing.T) {
	_, err := NewDropout(1.5, NewRand(1))
	require.ErrorIs(t, err, ErrInvalidConfig)

	d, err := NewDropout(0.5, NewRand(1))
	require.NoError(t, err)

	x := tensor.Ones(tensor.Shape{100, 100})

	// Evaluation mode is the identity.
	y, err := d.Forward(x)
	require.NoError(t, err)
	assert.True(t, y.AllClose(x, 0))

	d.SetTraining(true)
	y, err = d.Forward(x)
	require.NoError(t, err)

	zeros := 0
	for _, v := range y.Data() {
		switch v {
		case 0:
			zeros++
		default:
			assert.Equal(t, float32(2), v)
		}
	}
	assert.InDelta(t, 5000, zeros, 300)
}

func TestDropout_Full(t *testing.T) {
	d, err := NewDropout(1, NewRand(1))
	require.NoError(t, err)
	d.SetTraining(true)

	y, err := d.Forward(tensor.Ones(tensor.Shape{3, 3}))
	require.NoError(t, err)
	assert.True(t, y.AllClose(tensor.Zeros(tensor.Shape{3, 3}), 0))
}

func TestSequential(t *testing.T) {
	l1, err := NewLinear(4, 8, NewRand(1))
	require.NoError(t, err)
	l2, err := NewLinear(8, 4, NewRand(2))
	require.NoError(t, err)

	seq := NewSequential(l1, NewGELU(), l2)
	assert.Equal(t, 3, seq.Len())

	y, err := seq.Forward(tensor.Ones(tensor.Shape{2, 3, 4}))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3, 4}, y.Shape())

	names := make([]string, 0, 4)
	for _, p := range seq.Parameters() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"0.weight", "0.bias", "2.weight", "2.bias"}, names)

	// Incompatible chain surfaces the failing index.
	bad := NewSequential(l1, l1)
	_, err = bad.Forward(tensor.Ones(tensor.Shape{1, 4}))
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)
	assert.Contains(t, err.Error(), "Sequential[1]")
}

func TestResidualAdd_Identity(t *testing.T) {
	x := tensor.Randn(tensor.Shape{2, 3, 4}, NewRand(5))

	y, err := NewResidualAdd(identity{}).Forward(x)
	require.NoError(t, err)
	assert.True(t, y.AllClose(x.MulScalar(2), 1e-6))
}

func TestResidualAdd_ShapeMismatch(t *testing.T) {
	narrowing, err := NewLinear(4, 3, NewRand(1))
	require.NoError(t, err)

	_, err = NewResidualAdd(narrowing).Forward(tensor.Ones(tensor.Shape{2, 4}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}
