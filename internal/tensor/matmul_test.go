package tensor

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveMatMul is the reference used to check the BLAS-backed kernels.
func naiveMatMul(a, b []float32, m, k, n int) []float32 {
	out := make([]float32, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			for p := 0; p < k; p++ {
				sum += a[i*k+p] * b[p*n+j]
			}
			out[i*n+j] = sum
		}
	}
	return out
}

func TestMatMul(t *testing.T) {
	a, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	require.NoError(t, err)
	b, err := FromSlice([]float32{7, 8, 9, 10, 11, 12}, Shape{3, 2})
	require.NoError(t, err)

	c, err := a.MatMul(b)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 2}, c.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, c.Data())

	_, err = a.MatMul(a)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestMatMulT(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	a := Randn(Shape{5, 7}, rng)
	w := Randn(Shape{3, 7}, rng)

	got, err := a.MatMulT(w)
	require.NoError(t, err)

	wT, err := w.Transpose()
	require.NoError(t, err)
	want, err := a.MatMul(wT)
	require.NoError(t, err)

	assert.True(t, got.AllClose(want, 1e-5))
}

func TestBatchMatMul(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	a := Randn(Shape{2, 3, 4, 5}, rng)
	b := Randn(Shape{2, 3, 5, 6}, rng)

	c, err := a.BatchMatMul(b)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3, 4, 6}, c.Shape())

	for i := 0; i < 6; i++ {
		want := naiveMatMul(a.Data()[i*20:(i+1)*20], b.Data()[i*30:(i+1)*30], 4, 5, 6)
		assert.InDeltaSlice(t, want, c.Data()[i*24:(i+1)*24], 1e-4)
	}
}

func TestBatchMatMulT(t *testing.T) {
	rng := rand.New(rand.NewPCG(8, 9))
	q := Randn(Shape{2, 4, 6, 8}, rng)
	k := Randn(Shape{2, 4, 6, 8}, rng)

	got, err := q.BatchMatMulT(k)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 4, 6, 6}, got.Shape())

	kT, err := k.Transpose(0, 1, 3, 2)
	require.NoError(t, err)
	want, err := q.BatchMatMul(kT)
	require.NoError(t, err)
	assert.True(t, got.AllClose(want, 1e-5))
}

func TestBatchMatMul_Errors(t *testing.T) {
	tests := []struct {
		name string
		a, b Shape
	}{
		{name: "rank 2", a: Shape{2, 3}, b: Shape{3, 2}},
		{name: "rank differs", a: Shape{2, 2, 3}, b: Shape{2, 2, 3, 2}},
		{name: "batch differs", a: Shape{2, 2, 3}, b: Shape{3, 3, 2}},
		{name: "inner differs", a: Shape{2, 2, 3}, b: Shape{2, 4, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Zeros(tt.a).BatchMatMul(Zeros(tt.b))
			assert.ErrorIs(t, err, ErrShapeMismatch)
		})
	}
}
