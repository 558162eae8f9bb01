// Package tokenizer turns text into token id batches for the encoder.
//
// This package wraps the internal tokenizer implementation and provides
// a clean public API.
//
// Supported tokenizers:
//   - TikToken: OpenAI BPE tokenizers (cl100k_base, p50k_base, r50k_base)
//
// Example usage:
//
//	import "github.com/born-ml/encoder/tokenizer"
//
//	tok, err := tokenizer.NewTikToken("cl100k_base")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	batch, err := tokenizer.EncodeBatch(tok, []string{"Hello, world!"}, 512)
//	embeddings, err := embed.Forward(batch.IDs)
package tokenizer

import (
	"github.com/born-ml/encoder/internal/tokenizer"
)

// ErrEmptyInput is returned when there is nothing to encode.
var ErrEmptyInput = tokenizer.ErrEmptyInput

// Tokenizer is the core interface for text tokenization.
type Tokenizer = tokenizer.Tokenizer

// TikToken wraps OpenAI's tiktoken encodings.
type TikToken = tokenizer.TikToken

// Batch is a padded grid of token ids with the true row lengths.
type Batch = tokenizer.Batch

// NewTikToken creates a tokenizer for the named encoding.
func NewTikToken(encodingName string) (*TikToken, error) {
	return tokenizer.NewTikToken(encodingName)
}

// VocabSizeOf returns the embedding table size an encoding needs.
func VocabSizeOf(encodingName string) int {
	return tokenizer.VocabSizeOf(encodingName)
}

// EncodeBatch encodes, truncates to maxLen and right-pads the texts.
func EncodeBatch(tok Tokenizer, texts []string, maxLen int) (*Batch, error) {
	return tokenizer.EncodeBatch(tok, texts, maxLen)
}
