// Package config loads the YAML configuration shared by the encoder commands.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/encoder/internal/nn"
	"github.com/born-ml/encoder/internal/tokenizer"
)

// ErrInvalid is returned (wrapped) when a configuration value is out of range.
var ErrInvalid = errors.New("invalid config")

// Config is the root configuration document.
type Config struct {
	Seed      uint64          `yaml:"seed"`
	LogLevel  string          `yaml:"log_level"`
	Model     ModelConfig     `yaml:"model"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
}

// ModelConfig describes the encoder stack.
type ModelConfig struct {
	Dim      int     `yaml:"dim"`
	NumHeads int     `yaml:"num_heads"`
	FFDim    int     `yaml:"ff_dim"`
	Dropout  float32 `yaml:"dropout"`
	Depth    int     `yaml:"depth"`
	NormEps  float32 `yaml:"norm_eps"`
}

// TokenizerConfig selects the tiktoken encoding and embedding table size.
type TokenizerConfig struct {
	Encoding  string `yaml:"encoding"`
	VocabSize int    `yaml:"vocab_size"`
	MaxSeqLen int    `yaml:"max_seq_len"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Seed:     42,
		LogLevel: "info",
		Model: ModelConfig{
			Dim:      512,
			NumHeads: 8,
			FFDim:    2048,
			Dropout:  0.1,
			Depth:    nn.DefaultDepth,
			NormEps:  nn.DefaultNormEps,
		},
		Tokenizer: TokenizerConfig{
			Encoding:  tokenizer.EncodingCL100kBase,
			VocabSize: tokenizer.VocabSizeOf(tokenizer.EncodingCL100kBase),
			MaxSeqLen: 512,
		},
	}
}

// Load reads and validates the file at path. Fields missing from the file
// keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the same invariants the encoder checks at construction.
func (c *Config) Validate() error {
	m := c.Model
	switch {
	case m.Dim <= 0:
		return fmt.Errorf("%w: model.dim must be positive, got %d", ErrInvalid, m.Dim)
	case m.NumHeads <= 0:
		return fmt.Errorf("%w: model.num_heads must be positive, got %d", ErrInvalid, m.NumHeads)
	case m.Dim%m.NumHeads != 0:
		return fmt.Errorf("%w: model.dim %d must be divisible by model.num_heads %d", ErrInvalid, m.Dim, m.NumHeads)
	case m.FFDim < 0:
		return fmt.Errorf("%w: model.ff_dim must not be negative, got %d", ErrInvalid, m.FFDim)
	case m.Dropout < 0 || m.Dropout > 1:
		return fmt.Errorf("%w: model.dropout must be in [0, 1], got %g", ErrInvalid, m.Dropout)
	case m.Depth <= 0:
		return fmt.Errorf("%w: model.depth must be positive, got %d", ErrInvalid, m.Depth)
	case m.NormEps <= 0:
		return fmt.Errorf("%w: model.norm_eps must be positive, got %g", ErrInvalid, m.NormEps)
	}

	tok := c.Tokenizer
	if tokenizer.VocabSizeOf(tok.Encoding) == 0 {
		return fmt.Errorf("%w: unsupported tokenizer.encoding %q", ErrInvalid, tok.Encoding)
	}
	if tok.VocabSize < tokenizer.VocabSizeOf(tok.Encoding) {
		return fmt.Errorf("%w: tokenizer.vocab_size %d is smaller than %s needs (%d)",
			ErrInvalid, tok.VocabSize, tok.Encoding, tokenizer.VocabSizeOf(tok.Encoding))
	}
	if tok.MaxSeqLen <= 0 {
		return fmt.Errorf("%w: tokenizer.max_seq_len must be positive, got %d", ErrInvalid, tok.MaxSeqLen)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// EncoderConfig converts the model section into an nn.EncoderConfig.
func (c *Config) EncoderConfig() nn.EncoderConfig {
	return nn.EncoderConfig{
		Block: nn.BlockConfig{
			Dim:      c.Model.Dim,
			NumHeads: c.Model.NumHeads,
			FFDim:    c.Model.FFDim,
			Dropout:  c.Model.Dropout,
			NormEps:  c.Model.NormEps,
		},
		Depth: c.Model.Depth,
	}
}
