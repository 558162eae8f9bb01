package tokenizer

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a batch has no texts or every text encodes
// to zero tokens.
var ErrEmptyInput = errors.New("empty input")

// Tokenizer is the core interface for text tokenization.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int) (string, error)

	// VocabSize returns the number of distinct ids Encode can produce,
	// special tokens included. An embedding table needs this many rows.
	VocabSize() int

	// Name returns the encoding name.
	Name() string
}

// Batch is a rectangular grid of token ids.
type Batch struct {
	IDs     [][]int // [batch][seq], right-padded with 0
	Lengths []int   // unpadded length of each row
}

// SeqLen returns the padded sequence length.
func (b *Batch) SeqLen() int {
	if len(b.IDs) == 0 {
		return 0
	}
	return len(b.IDs[0])
}

// EncodeBatch encodes every text, truncates to maxLen tokens and right-pads
// to the longest row with id 0. maxLen <= 0 disables truncation.
//
// Padded positions carry a valid id so the grid can be embedded directly;
// they must be hidden from attention with a padding mask built from Lengths.
func EncodeBatch(tok Tokenizer, texts []string, maxLen int) (*Batch, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("EncodeBatch: %w: no texts", ErrEmptyInput)
	}

	rows := make([][]int, len(texts))
	lengths := make([]int, len(texts))
	longest := 0
	for i, text := range texts {
		ids, err := tok.Encode(text)
		if err != nil {
			return nil, fmt.Errorf("EncodeBatch: text %d: %w", i, err)
		}
		if maxLen > 0 && len(ids) > maxLen {
			ids = ids[:maxLen]
		}
		rows[i] = ids
		lengths[i] = len(ids)
		longest = max(longest, len(ids))
	}
	if longest == 0 {
		return nil, fmt.Errorf("EncodeBatch: %w: all texts encode to zero tokens", ErrEmptyInput)
	}

	for i, ids := range rows {
		padded := make([]int, longest)
		copy(padded, ids)
		rows[i] = padded
	}

	return &Batch{IDs: rows, Lengths: lengths}, nil
}
