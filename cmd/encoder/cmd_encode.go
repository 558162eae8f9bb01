package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/born-ml/encoder/internal/nn"
	"github.com/born-ml/encoder/internal/tokenizer"
)

// newTokenizer is replaced in tests to avoid fetching BPE ranks.
var newTokenizer = func(encoding string) (tokenizer.Tokenizer, error) {
	return tokenizer.NewTikToken(encoding)
}

func (a *app) newEncodeCmd() *cobra.Command {
	encodeCmd := &cobra.Command{
		Use:   "encode [TEXT...]",
		Short: "Tokenize text and show last-block attention per token",
		RunE:  a.EncodeHandler,
	}

	encodeCmd.Flags().StringArrayP("text", "t", nil, "Text to encode (repeatable)")
	encodeCmd.Flags().Int("row", 0, "Which text of the batch to print")

	return encodeCmd
}

// EncodeHandler tokenizes the texts, embeds them with sinusoidal positions,
// runs the encoder under a padding mask and prints, for every token of one
// text, the token it attends to most in the last block (averaged over heads).
func (a *app) EncodeHandler(cmd *cobra.Command, args []string) error {
	texts, err := cmd.Flags().GetStringArray("text")
	if err != nil {
		return err
	}
	texts = append(texts, args...)
	if len(texts) == 0 {
		return fmt.Errorf("nothing to encode: pass TEXT arguments or --text")
	}
	row, err := cmd.Flags().GetInt("row")
	if err != nil {
		return err
	}
	if row < 0 || row >= len(texts) {
		return fmt.Errorf("--row %d out of range for %d texts", row, len(texts))
	}

	tokCfg := a.cfg.Tokenizer
	tok, err := newTokenizer(tokCfg.Encoding)
	if err != nil {
		return err
	}
	batch, err := tokenizer.EncodeBatch(tok, texts, tokCfg.MaxSeqLen)
	if err != nil {
		return err
	}
	log.Debug().
		Str("encoding", tok.Name()).
		Ints("lengths", batch.Lengths).
		Msg("tokenized")

	rng := nn.NewRand(a.cfg.Seed)
	embed, err := nn.NewEmbedding(tokCfg.VocabSize, a.cfg.Model.Dim, rng)
	if err != nil {
		return err
	}
	pe, err := nn.NewSinusoidalPositionalEncoding(tokCfg.MaxSeqLen, a.cfg.Model.Dim)
	if err != nil {
		return err
	}
	enc, err := a.buildEncoder()
	if err != nil {
		return err
	}

	x, err := embed.Forward(batch.IDs)
	if err != nil {
		return err
	}
	if x, err = pe.Forward(x); err != nil {
		return err
	}
	mask, err := nn.PaddingMask(batch.Lengths, batch.SeqLen())
	if err != nil {
		return err
	}

	_, weights, err := enc.ForwardWithWeights(x, mask)
	if err != nil {
		return err
	}
	// [batch, heads, seq, seq] -> [batch, seq, seq]
	attn, err := weights[len(weights)-1].MeanDim(1, false)
	if err != nil {
		return err
	}

	ids := batch.IDs[row][:batch.Lengths[row]]
	pieces := make([]string, len(ids))
	for i, id := range ids {
		piece, err := tok.Decode([]int{id})
		if err != nil {
			return err
		}
		pieces[i] = strconv.Quote(piece)
	}

	var data [][]string
	for i, id := range ids {
		best := 0
		for j := range ids {
			if attn.At(row, i, j) > attn.At(row, i, best) {
				best = j
			}
		}
		data = append(data, []string{
			strconv.Itoa(i),
			strconv.Itoa(id),
			pieces[i],
			pieces[best],
			fmt.Sprintf("%.3f", attn.At(row, i, best)),
		})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"POS", "ID", "TOKEN", "ATTENDS TO", "WEIGHT"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	if len(texts) > 1 {
		fmt.Fprintf(cmd.ErrOrStderr(), "showing text %d of %d: %s\n", row, len(texts), strings.Join(pieces, ""))
	}
	return nil
}
