package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/encoder/internal/tensor"
)

// MaskedLogit is written into attention logits where the mask is 0.
// After softmax these positions carry zero weight.
const MaskedLogit = -1e10

// ScaledDotProductAttention computes attention with the scaled dot-product
// mechanism:
//
//	Attention(Q, K, V) = softmax(mask(QK^T / sqrt(d_k))) * V
//
// Parameters:
//   - query: [batch, heads, seq_q, head_dim]
//   - key: [batch, heads, seq_k, head_dim]
//   - value: [batch, heads, seq_k, head_dim]
//   - mask: nil, or a 0/1 tensor broadcastable to [batch, heads, seq_q, seq_k];
//     positions where mask == 0 receive no attention
//
// Returns:
//   - output: [batch, heads, seq_q, head_dim]
//   - weights: [batch, heads, seq_q, seq_k], rows sum to 1
//
// Example:
//
//	rng := nn.NewRand(42)
//	q := tensor.Randn(tensor.Shape{2, 8, 10, 64}, rng)
//	out, weights, err := nn.ScaledDotProductAttention(q, q, q, nil)
func ScaledDotProductAttention(query, key, value, mask *tensor.Tensor) (*tensor.Tensor, *tensor.Tensor, error) {
	if err := validateAttentionInputs(query, key, value); err != nil {
		return nil, nil, err
	}

	// 1. Scores: Q @ K^T, [batch, heads, seq_q, seq_k]
	scores, err := query.BatchMatMulT(key)
	if err != nil {
		return nil, nil, fmt.Errorf("ScaledDotProductAttention: %w", err)
	}

	// 2. Scale by 1/sqrt(d_k)
	scores = scores.MulScalar(float32(1 / math.Sqrt(float64(query.Dim(-1)))))

	// 3. Mask
	if mask != nil {
		scores, err = scores.MaskedFill(mask, MaskedLogit)
		if err != nil {
			return nil, nil, fmt.Errorf("ScaledDotProductAttention: mask %v: %w", mask.Shape(), err)
		}
	}

	// 4. Softmax over keys
	weights, err := scores.Softmax(-1)
	if err != nil {
		return nil, nil, err
	}

	// 5. Weighted sum of values
	output, err := weights.BatchMatMul(value)
	if err != nil {
		return nil, nil, fmt.Errorf("ScaledDotProductAttention: %w", err)
	}

	return output, weights, nil
}

// validateAttentionInputs validates the input tensors for attention.
func validateAttentionInputs(query, key, value *tensor.Tensor) error {
	names := [...]string{"query", "key", "value"}
	for i, t := range [...]*tensor.Tensor{query, key, value} {
		if t.Rank() != 4 {
			return fmt.Errorf("ScaledDotProductAttention: %w: %s must be 4D [batch, heads, seq, head_dim], got %v",
				tensor.ErrShapeMismatch, names[i], t.Shape())
		}
	}

	if query.Dim(-1) != key.Dim(-1) {
		return fmt.Errorf("ScaledDotProductAttention: %w: query and key head_dim differ (%d vs %d)",
			tensor.ErrShapeMismatch, query.Dim(-1), key.Dim(-1))
	}
	if key.Dim(2) != value.Dim(2) {
		return fmt.Errorf("ScaledDotProductAttention: %w: key and value seq length differ (%d vs %d)",
			tensor.ErrShapeMismatch, key.Dim(2), value.Dim(2))
	}
	return nil
}

// CausalMask creates a 0/1 causal mask of shape [1, 1, seq_len, seq_len].
//
// Row i allows keys 0..i:
//
//	[[1, 0, 0, 0],
//	 [1, 1, 0, 0],
//	 [1, 1, 1, 0],
//	 [1, 1, 1, 1]]
func CausalMask(seqLen int) *tensor.Tensor {
	mask := tensor.Zeros(tensor.Shape{1, 1, seqLen, seqLen})
	data := mask.Data()
	for i := 0; i < seqLen; i++ {
		for j := 0; j <= i; j++ {
			data[i*seqLen+j] = 1
		}
	}
	return mask
}

// PaddingMask creates a 0/1 key-padding mask of shape [batch, 1, 1, seq_len]
// where sequence b has lengths[b] valid leading positions.
func PaddingMask(lengths []int, seqLen int) (*tensor.Tensor, error) {
	if len(lengths) == 0 || seqLen <= 0 {
		return nil, fmt.Errorf("PaddingMask: %w: need at least one sequence and seq_len > 0", ErrInvalidConfig)
	}

	mask := tensor.Zeros(tensor.Shape{len(lengths), 1, 1, seqLen})
	data := mask.Data()
	for b, n := range lengths {
		if n < 0 || n > seqLen {
			return nil, fmt.Errorf("PaddingMask: %w: length %d outside [0, %d]", ErrInvalidConfig, n, seqLen)
		}
		for j := 0; j < n; j++ {
			data[b*seqLen+j] = 1
		}
	}
	return mask, nil
}
