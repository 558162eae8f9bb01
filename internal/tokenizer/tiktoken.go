package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// EncodingCL100kBase is the encoding name for GPT-4 and GPT-3.5-turbo.
	EncodingCL100kBase = "cl100k_base"
	// encodingP50kBase is the encoding name for GPT-3.
	encodingP50kBase = "p50k_base"
	// encodingR50kBase is the encoding name for older GPT-3 models.
	encodingR50kBase = "r50k_base"
)

// TikToken wraps the pkoukk/tiktoken-go library for OpenAI tokenizers.
//
// Supported encodings:
//   - cl100k_base: GPT-4, GPT-3.5-turbo, text-embedding-ada-002
//   - p50k_base: GPT-3, Codex
//   - r50k_base: GPT-3, davinci-002, babbage-002
//
// The BPE ranks are fetched and cached by tiktoken-go on first use
// (TIKTOKEN_CACHE_DIR controls the cache location).
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTikToken creates a new TikToken tokenizer with the specified encoding.
func NewTikToken(encodingName string) (*TikToken, error) {
	if VocabSizeOf(encodingName) == 0 {
		return nil, fmt.Errorf("tiktoken: unsupported encoding %q", encodingName)
	}

	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	return &TikToken{
		encoding: encoding,
		name:     encodingName,
	}, nil
}

// Encode converts text to token IDs. Special-token text is encoded as
// ordinary text.
func (t *TikToken) Encode(text string) ([]int, error) {
	return t.encoding.Encode(text, nil, nil), nil
}

// Decode converts token IDs back to text.
func (t *TikToken) Decode(tokens []int) (string, error) {
	return t.encoding.Decode(tokens), nil
}

// VocabSize returns the total vocabulary size including special tokens.
func (t *TikToken) VocabSize() int {
	return VocabSizeOf(t.name)
}

// Name returns the encoding name.
func (t *TikToken) Name() string {
	return t.name
}

// VocabSizeOf returns the embedding table size an encoding needs: the
// highest special token id plus one. Unknown encodings return 0.
func VocabSizeOf(encodingName string) int {
	switch encodingName {
	case EncodingCL100kBase:
		return 100277 // <|endofprompt|> is 100276
	case encodingP50kBase:
		return 50281
	case encodingR50kBase:
		return 50257 // <|endoftext|> is 50256
	default:
		return 0
	}
}
