package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadTikToken skips when the BPE ranks cannot be fetched (offline CI).
func loadTikToken(t *testing.T, encoding string) *TikToken {
	t.Helper()
	tok, err := NewTikToken(encoding)
	if err != nil {
		t.Skipf("tiktoken encoding %s unavailable: %v", encoding, err)
	}
	return tok
}

func TestNewTikToken_Unsupported(t *testing.T) {
	tok, err := NewTikToken("invalid_encoding_xyz")
	assert.Error(t, err)
	assert.Nil(t, tok)
}

func TestVocabSizeOf(t *testing.T) {
	tests := []struct {
		encoding string
		want     int
	}{
		{"cl100k_base", 100277},
		{"p50k_base", 50281},
		{"r50k_base", 50257},
		{"o200k_base", 0},
	}

	for _, tt := range tests {
		t.Run(tt.encoding, func(t *testing.T) {
			assert.Equal(t, tt.want, VocabSizeOf(tt.encoding))
		})
	}
}

func TestTikToken_Roundtrip(t *testing.T) {
	tok := loadTikToken(t, EncodingCL100kBase)
	assert.Equal(t, EncodingCL100kBase, tok.Name())
	assert.Equal(t, 100277, tok.VocabSize())

	tests := []struct {
		name string
		text string
	}{
		{name: "simple text", text: "Hello, world!"},
		{name: "with newlines", text: "Hello\nWorld\n"},
		{name: "unicode", text: "Hello 世界! 🌍"},
		{name: "empty string", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := tok.Encode(tt.text)
			require.NoError(t, err)
			for _, id := range tokens {
				assert.Less(t, id, tok.VocabSize())
			}

			decoded, err := tok.Decode(tokens)
			require.NoError(t, err)
			assert.Equal(t, tt.text, decoded)
		})
	}
}

func TestTikToken_KnownIDs(t *testing.T) {
	tok := loadTikToken(t, EncodingCL100kBase)

	tokens, err := tok.Encode("hello world")
	require.NoError(t, err)
	assert.Equal(t, []int{15339, 1917}, tokens)
}
