package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/encoder/internal/config"
	"github.com/born-ml/encoder/internal/tokenizer"
)

const smallConfig = `
seed: 3
log_level: warn
model:
  dim: 16
  num_heads: 4
  ff_dim: 32
  depth: 2
tokenizer:
  max_seq_len: 8
`

// byteTokenizer emits one id per byte.
type byteTokenizer struct{}

func (byteTokenizer) Encode(text string) ([]int, error) {
	ids := make([]int, len(text))
	for i := range len(text) {
		ids[i] = int(text[i])
	}
	return ids, nil
}

func (byteTokenizer) Decode(ids []int) (string, error) {
	b := make([]byte, len(ids))
	for i, id := range ids {
		b[i] = byte(id)
	}
	return string(b), nil
}

func (byteTokenizer) VocabSize() int { return 256 }
func (byteTokenizer) Name() string   { return "bytes" }

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "encoder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallConfig), 0o600))

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", path}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "encoder "+version+"\n", out)
}

func TestRun(t *testing.T) {
	out, err := execute(t, "run", "--batch", "3", "--seq", "5", "--causal")
	require.NoError(t, err)
	assert.Contains(t, out, "output:     [3 5 16]")
	assert.Contains(t, out, "weights:    2 x [3 4 5 5]")
}

func TestRun_InvalidFlags(t *testing.T) {
	_, err := execute(t, "run", "--seq", "0")
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	out, err := execute(t, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "blocks.0.attn.qkv_proj.weight")
	assert.Contains(t, out, "blocks.1.mlp.linear2.bias")
	assert.Contains(t, out, "2 blocks")
}

func TestBench(t *testing.T) {
	out, err := execute(t, "bench", "--iters", "2", "--seq", "4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "input [2 4 16], 2 iters"), out)
}

func TestEncode(t *testing.T) {
	orig := newTokenizer
	newTokenizer = func(string) (tokenizer.Tokenizer, error) { return byteTokenizer{}, nil }
	t.Cleanup(func() { newTokenizer = orig })

	out, err := execute(t, "encode", "hi there", "--text", "abc")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Header plus one row per token of "abc" (the --text value comes first).
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "ATTENDS TO")
	assert.Contains(t, lines[1], `"a"`)
}

func TestEncode_NoText(t *testing.T) {
	_, err := execute(t, "encode")
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: {dim: 10, num_heads: 3}"), 0o600))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "summary"})
	assert.ErrorIs(t, cmd.Execute(), config.ErrInvalid)
}
