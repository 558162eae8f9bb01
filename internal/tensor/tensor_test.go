package tensor

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Shape
		want    Shape
		wantErr bool
	}{
		{name: "equal", a: Shape{3, 5}, b: Shape{3, 5}, want: Shape{3, 5}},
		{name: "column", a: Shape{3, 1}, b: Shape{3, 5}, want: Shape{3, 5}},
		{name: "missing leading", a: Shape{5}, b: Shape{2, 3, 5}, want: Shape{2, 3, 5}},
		{name: "padding mask", a: Shape{2, 1, 1, 4}, b: Shape{2, 8, 4, 4}, want: Shape{2, 8, 4, 4}},
		{name: "incompatible", a: Shape{3, 4}, b: Shape{3, 5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrShapeMismatch)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BroadcastShapes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromSlice(t *testing.T) {
	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, float32(6), x.At(1, 2))

	_, err = FromSlice([]float32{1, 2, 3}, Shape{2, 3})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestZeros_PanicsOnInvalidShape(t *testing.T) {
	assert.Panics(t, func() { Zeros(Shape{2, 0}) })
}

func TestUniform_Reproducible(t *testing.T) {
	a := Uniform(Shape{4, 4}, -1, 1, rand.New(rand.NewPCG(7, 7)))
	b := Uniform(Shape{4, 4}, -1, 1, rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, a.Data(), b.Data())

	for _, v := range a.Data() {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestReshape(t *testing.T) {
	x := Zeros(Shape{2, 10, 512})

	y, err := x.Reshape(2, 10, 8, -1)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 10, 8, 64}, y.Shape())

	_, err = x.Reshape(3, -1)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = x.Reshape(-1, -1)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestTranspose(t *testing.T) {
	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	require.NoError(t, err)

	y, err := x.Transpose()
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, y.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, y.Data())

	z := Randn(Shape{2, 3, 4, 5}, rand.New(rand.NewPCG(1, 2)))
	p, err := z.Transpose(0, 2, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 4, 3, 5}, p.Shape())
	assert.Equal(t, z.At(1, 2, 3, 4), p.At(1, 3, 2, 4))

	back, err := p.Transpose(0, 2, 1, 3)
	require.NoError(t, err)
	assert.True(t, back.AllClose(z, 0))

	_, err = z.Transpose(0, 0, 1, 2)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestChunk(t *testing.T) {
	x, err := FromSlice([]float32{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	}, Shape{2, 6})
	require.NoError(t, err)

	parts, err := x.Chunk(3, -1)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, []float32{1, 2, 7, 8}, parts[0].Data())
	assert.Equal(t, []float32{3, 4, 9, 10}, parts[1].Data())
	assert.Equal(t, []float32{5, 6, 11, 12}, parts[2].Data())

	_, err = x.Chunk(4, -1)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
