package main

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/born-ml/encoder/internal/nn"
	"github.com/born-ml/encoder/internal/tensor"
)

func (a *app) newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a random batch through the encoder stack",
		Args:  cobra.NoArgs,
		RunE:  a.RunHandler,
	}

	runCmd.Flags().Int("batch", 2, "Batch size")
	runCmd.Flags().Int("seq", 10, "Sequence length")
	runCmd.Flags().Bool("causal", false, "Apply a causal mask")

	return runCmd
}

// RunHandler feeds N(0, 1) input through the stack and reports shapes and
// the largest deviation of an attention row sum from 1.
func (a *app) RunHandler(cmd *cobra.Command, args []string) error {
	batch, err := cmd.Flags().GetInt("batch")
	if err != nil {
		return err
	}
	seq, err := cmd.Flags().GetInt("seq")
	if err != nil {
		return err
	}
	causal, err := cmd.Flags().GetBool("causal")
	if err != nil {
		return err
	}
	if batch <= 0 || seq <= 0 {
		return fmt.Errorf("batch and seq must be positive, got %d and %d", batch, seq)
	}

	enc, err := a.buildEncoder()
	if err != nil {
		return err
	}

	var mask *tensor.Tensor
	if causal {
		mask = nn.CausalMask(seq)
	}

	x := tensor.Randn(tensor.Shape{batch, seq, a.cfg.Model.Dim}, nn.NewRand(a.cfg.Seed+1))
	out, weights, err := enc.ForwardWithWeights(x, mask)
	if err != nil {
		return err
	}

	deviation, err := maxRowSumDeviation(weights)
	if err != nil {
		return err
	}
	log.Debug().Int("blocks", len(weights)).Msg("forward complete")

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "input:      %v\n", x.Shape())
	fmt.Fprintf(w, "output:     %v\n", out.Shape())
	fmt.Fprintf(w, "weights:    %d x %v\n", len(weights), weights[len(weights)-1].Shape())
	fmt.Fprintf(w, "row sum:    max |sum-1| = %.2e\n", deviation)
	return nil
}

func maxRowSumDeviation(weights []*tensor.Tensor) (float64, error) {
	var worst float64
	for _, w := range weights {
		sums, err := w.SumDim(-1, false)
		if err != nil {
			return 0, err
		}
		for _, s := range sums.Data() {
			worst = math.Max(worst, math.Abs(float64(s)-1))
		}
	}
	return worst, nil
}
