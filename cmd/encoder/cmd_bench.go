package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/born-ml/encoder/internal/nn"
	"github.com/born-ml/encoder/internal/tensor"
)

func (a *app) newBenchCmd() *cobra.Command {
	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Time forward passes of the encoder stack",
		Args:  cobra.NoArgs,
		RunE:  a.BenchHandler,
	}

	benchCmd.Flags().Int("iters", 10, "Number of timed forward passes")
	benchCmd.Flags().Int("batch", 2, "Batch size")
	benchCmd.Flags().Int("seq", 64, "Sequence length")

	return benchCmd
}

// BenchHandler times iters forward passes over one random batch.
func (a *app) BenchHandler(cmd *cobra.Command, args []string) error {
	iters, err := cmd.Flags().GetInt("iters")
	if err != nil {
		return err
	}
	batch, err := cmd.Flags().GetInt("batch")
	if err != nil {
		return err
	}
	seq, err := cmd.Flags().GetInt("seq")
	if err != nil {
		return err
	}
	if iters <= 0 || batch <= 0 || seq <= 0 {
		return fmt.Errorf("iters, batch and seq must be positive")
	}

	enc, err := a.buildEncoder()
	if err != nil {
		return err
	}
	x := tensor.Randn(tensor.Shape{batch, seq, a.cfg.Model.Dim}, nn.NewRand(a.cfg.Seed+1))

	bar := progressbar.NewOptions(iters,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("forward"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var total, fastest time.Duration
	for i := 0; i < iters; i++ {
		start := time.Now()
		if _, err := enc.Forward(x, nil); err != nil {
			return err
		}
		elapsed := time.Since(start)
		total += elapsed
		if i == 0 || elapsed < fastest {
			fastest = elapsed
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	mean := total / time.Duration(iters)
	log.Debug().Dur("total", total).Int("iters", iters).Msg("bench complete")

	tokens := float64(batch*seq) / mean.Seconds()
	fmt.Fprintf(cmd.OutOrStdout(), "input %v, %d iters: mean %v, min %v, %.0f tokens/s\n",
		x.Shape(), iters, mean, fastest, tokens)
	return nil
}
