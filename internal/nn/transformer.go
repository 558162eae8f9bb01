package nn

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/born-ml/encoder/internal/tensor"
)

// DefaultDepth is the number of encoder blocks when none is configured.
const DefaultDepth = 12

// BlockConfig defines the configuration for an EncoderBlock.
type BlockConfig struct {
	Dim      int     // d_model: Embedding dimension (e.g., 512)
	NumHeads int     // Number of attention heads (e.g., 8)
	FFDim    int     // MLP hidden dimension; 0 means DefaultExpansion * Dim
	Dropout  float32 // Dropout rate after attention, inside and after the MLP
	NormEps  float32 // LayerNorm epsilon; 0 means DefaultNormEps
}

// withDefaults fills zero-valued optional fields.
func (c BlockConfig) withDefaults() BlockConfig {
	if c.FFDim == 0 {
		c.FFDim = DefaultExpansion * c.Dim
	}
	if c.NormEps == 0 {
		c.NormEps = DefaultNormEps
	}
	return c
}

// EncoderBlock implements one Pre-Norm Transformer encoder block.
//
// Architecture:
//
//	x → LayerNorm → MHA → Dropout → + → LayerNorm → MLP → Dropout → + → output
//	↑______________________________|   ↑______________________________|
//	          (residual)                         (residual)
//
// The sub-transforms are named fields; Forward invokes them in a fixed order.
//
// Example:
//
//	block, err := nn.NewEncoderBlock(nn.BlockConfig{Dim: 512, NumHeads: 8, FFDim: 2048, Dropout: 0.1}, rng)
//	out, err := block.Forward(x, nil) // [batch, seq, 512] -> [batch, seq, 512]
type EncoderBlock struct {
	Config      BlockConfig
	AttnNorm    *LayerNorm
	Attention   *MultiheadAttention
	AttnDropout *Dropout
	FFNNorm     *LayerNorm
	MLP         *MLP
	FFNDropout  *Dropout

	ffn *ResidualAdd // residual(FFNNorm → MLP → FFNDropout)
}

// NewEncoderBlock creates a new encoder block.
//
// Returns an error wrapping ErrInvalidConfig when Dim is not divisible by
// NumHeads or any size or rate is out of range.
func NewEncoderBlock(config BlockConfig, rng *rand.Rand) (*EncoderBlock, error) {
	config = config.withDefaults()

	attnNorm, err := NewLayerNorm(config.Dim, config.NormEps)
	if err != nil {
		return nil, fmt.Errorf("EncoderBlock: %w", err)
	}
	attention, err := NewMultiheadAttention(config.Dim, config.Dim, config.NumHeads, rng)
	if err != nil {
		return nil, fmt.Errorf("EncoderBlock: %w", err)
	}
	attnDropout, err := NewDropout(config.Dropout, rng)
	if err != nil {
		return nil, fmt.Errorf("EncoderBlock: %w", err)
	}
	ffnNorm, err := NewLayerNorm(config.Dim, config.NormEps)
	if err != nil {
		return nil, fmt.Errorf("EncoderBlock: %w", err)
	}
	mlp, err := NewMLPWithHidden(config.Dim, config.FFDim, config.Dropout, rng)
	if err != nil {
		return nil, fmt.Errorf("EncoderBlock: %w", err)
	}
	ffnDropout, err := NewDropout(config.Dropout, rng)
	if err != nil {
		return nil, fmt.Errorf("EncoderBlock: %w", err)
	}

	return &EncoderBlock{
		Config:      config,
		AttnNorm:    attnNorm,
		Attention:   attention,
		AttnDropout: attnDropout,
		FFNNorm:     ffnNorm,
		MLP:         mlp,
		FFNDropout:  ffnDropout,
		ffn:         NewResidualAdd(NewSequential(ffnNorm, mlp, ffnDropout)),
	}, nil
}

// Forward computes the block output for x [batch, seq, dim].
func (b *EncoderBlock) Forward(x, mask *tensor.Tensor) (*tensor.Tensor, error) {
	out, _, err := b.ForwardWithWeights(x, mask)
	return out, err
}

// ForwardWithWeights computes the block output and returns the attention
// weights [batch, heads, seq, seq] of its self-attention.
func (b *EncoderBlock) ForwardWithWeights(x, mask *tensor.Tensor) (*tensor.Tensor, *tensor.Tensor, error) {
	var weights *tensor.Tensor

	// 1. Attention sub-layer with residual
	x, err := residual(x, func(h *tensor.Tensor) (*tensor.Tensor, error) {
		h, err := b.AttnNorm.Forward(h)
		if err != nil {
			return nil, err
		}
		if h, weights, err = b.Attention.ForwardWithWeights(h, mask); err != nil {
			return nil, err
		}
		return b.AttnDropout.Forward(h)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("EncoderBlock attention: %w", err)
	}

	// 2. Feed-forward sub-layer with residual
	x, err = b.ffn.Forward(x)
	if err != nil {
		return nil, nil, fmt.Errorf("EncoderBlock feed-forward: %w", err)
	}

	return x, weights, nil
}

// SetTraining toggles every dropout layer in the block.
func (b *EncoderBlock) SetTraining(training bool) {
	b.AttnDropout.SetTraining(training)
	b.ffn.SetTraining(training)
}

// Parameters returns all trainable parameters of the block.
func (b *EncoderBlock) Parameters() []*Parameter {
	params := make([]*Parameter, 0, 12)
	params = append(params, prefixed("attn_norm", b.AttnNorm.Parameters())...)
	params = append(params, prefixed("attn", b.Attention.Parameters())...)
	params = append(params, prefixed("ffn_norm", b.FFNNorm.Parameters())...)
	params = append(params, prefixed("mlp", b.MLP.Parameters())...)
	return params
}

// EncoderConfig defines the configuration for an Encoder stack.
type EncoderConfig struct {
	Block BlockConfig
	Depth int // Number of blocks; 0 means DefaultDepth
}

// EncoderOption configures optional Encoder behavior.
type EncoderOption func(*Encoder)

// WithLogger attaches a logger; construction is reported at debug level.
func WithLogger(logger zerolog.Logger) EncoderOption {
	return func(e *Encoder) {
		e.logger = logger
	}
}

// Encoder is a stack of independently parameterized encoder blocks applied
// in order. Every block maps [batch, seq, dim] to the same shape.
//
// Example:
//
//	enc, err := nn.NewEncoder(nn.EncoderConfig{
//	    Block: nn.BlockConfig{Dim: 512, NumHeads: 8},
//	    Depth: 12,
//	}, nn.NewRand(42))
//	out, err := enc.Forward(x, nil)
type Encoder struct {
	Config EncoderConfig
	Blocks []*EncoderBlock
	logger zerolog.Logger
}

// NewEncoder creates Depth encoder blocks drawing their initial weights
// from rng in order.
func NewEncoder(config EncoderConfig, rng *rand.Rand, opts ...EncoderOption) (*Encoder, error) {
	if config.Depth == 0 {
		config.Depth = DefaultDepth
	}
	if config.Depth < 0 {
		return nil, fmt.Errorf("Encoder: %w: depth must be positive, got %d", ErrInvalidConfig, config.Depth)
	}
	config.Block = config.Block.withDefaults()

	e := &Encoder{
		Config: config,
		Blocks: make([]*EncoderBlock, config.Depth),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	for i := range e.Blocks {
		block, err := NewEncoderBlock(config.Block, rng)
		if err != nil {
			return nil, fmt.Errorf("Encoder block %d: %w", i, err)
		}
		e.Blocks[i] = block
	}

	e.logger.Debug().
		Int("depth", config.Depth).
		Int("dim", config.Block.Dim).
		Int("num_heads", config.Block.NumHeads).
		Int("ff_dim", config.Block.FFDim).
		Float32("dropout", config.Block.Dropout).
		Int("parameters", e.NumParameters()).
		Msg("encoder constructed")

	return e, nil
}

// Forward applies every block in order to x [batch, seq, dim].
func (e *Encoder) Forward(x, mask *tensor.Tensor) (*tensor.Tensor, error) {
	return e.forward(x, mask, nil)
}

// ForwardWithWeights applies every block and returns the attention weights
// of each block, in block order.
func (e *Encoder) ForwardWithWeights(x, mask *tensor.Tensor) (*tensor.Tensor, []*tensor.Tensor, error) {
	weights := make([]*tensor.Tensor, 0, len(e.Blocks))
	out, err := e.forward(x, mask, &weights)
	if err != nil {
		return nil, nil, err
	}
	return out, weights, nil
}

func (e *Encoder) forward(x, mask *tensor.Tensor, weights *[]*tensor.Tensor) (*tensor.Tensor, error) {
	if x.Rank() != 3 || x.Dim(-1) != e.Config.Block.Dim {
		return nil, fmt.Errorf("Encoder.Forward: %w: expected input [batch, seq, %d], got %v",
			tensor.ErrShapeMismatch, e.Config.Block.Dim, x.Shape())
	}

	for i, block := range e.Blocks {
		out, w, err := block.ForwardWithWeights(x, mask)
		if err != nil {
			return nil, fmt.Errorf("Encoder block %d: %w", i, err)
		}
		if weights != nil {
			*weights = append(*weights, w)
		}
		x = out
	}
	return x, nil
}

// SetTraining toggles every dropout layer in the stack.
func (e *Encoder) SetTraining(training bool) {
	for _, b := range e.Blocks {
		b.SetTraining(training)
	}
}

// Parameters returns all parameters named "blocks.<i>.<path>".
func (e *Encoder) Parameters() []*Parameter {
	var params []*Parameter
	for i, b := range e.Blocks {
		params = append(params, prefixed("blocks."+strconv.Itoa(i), b.Parameters())...)
	}
	return params
}

// NumParameters returns the total number of trainable scalars.
func (e *Encoder) NumParameters() int {
	return CountParameters(e.Parameters())
}
