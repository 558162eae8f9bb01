package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/encoder/internal/tensor"
)

// SinusoidalPositionalEncoding implements the fixed encodings from
// "Attention is All You Need":
//
//	PE(pos, 2i)   = sin(pos / 10000^(2i/d))
//	PE(pos, 2i+1) = cos(pos / 10000^(2i/d))
//
// Example:
//
//	pe, _ := nn.NewSinusoidalPositionalEncoding(512, 256)
//	x, err = pe.Forward(x) // x + PE[:seq], x is [batch, seq, 256]
type SinusoidalPositionalEncoding struct {
	Encoding *tensor.Tensor // [max_len, dim], pre-computed
	MaxLen   int
	Dim      int
}

// NewSinusoidalPositionalEncoding pre-computes encodings up to maxLen.
func NewSinusoidalPositionalEncoding(maxLen, dim int) (*SinusoidalPositionalEncoding, error) {
	if maxLen <= 0 || dim <= 0 {
		return nil, fmt.Errorf("SinusoidalPositionalEncoding: %w: maxLen and dim must be positive, got %d, %d",
			ErrInvalidConfig, maxLen, dim)
	}

	enc := tensor.Zeros(tensor.Shape{maxLen, dim})
	data := enc.Data()
	for pos := 0; pos < maxLen; pos++ {
		for i := 0; i < dim; i++ {
			angle := float64(pos) / math.Pow(10000.0, float64(2*(i/2))/float64(dim))
			if i%2 == 0 {
				data[pos*dim+i] = float32(math.Sin(angle))
			} else {
				data[pos*dim+i] = float32(math.Cos(angle))
			}
		}
	}

	return &SinusoidalPositionalEncoding{
		Encoding: enc,
		MaxLen:   maxLen,
		Dim:      dim,
	}, nil
}

// Forward adds the first seq encodings to x [batch, seq, dim].
func (s *SinusoidalPositionalEncoding) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x.Rank() != 3 || x.Dim(-1) != s.Dim {
		return nil, fmt.Errorf("SinusoidalPositionalEncoding.Forward: %w: expected [batch, seq, %d], got %v",
			tensor.ErrShapeMismatch, s.Dim, x.Shape())
	}
	seq := x.Dim(1)
	if seq > s.MaxLen {
		return nil, fmt.Errorf("SinusoidalPositionalEncoding.Forward: %w: seq %d exceeds max_len %d",
			tensor.ErrShapeMismatch, seq, s.MaxLen)
	}

	pe, err := tensor.FromSlice(s.Encoding.Data()[:seq*s.Dim], tensor.Shape{1, seq, s.Dim})
	if err != nil {
		return nil, err
	}
	return x.Add(pe)
}

// Parameters returns nil (encodings are fixed).
func (s *SinusoidalPositionalEncoding) Parameters() []*Parameter {
	return nil
}
