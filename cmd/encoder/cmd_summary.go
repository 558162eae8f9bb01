package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func (a *app) newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "List the encoder parameters",
		Args:  cobra.NoArgs,
		RunE:  a.SummaryHandler,
	}
}

// SummaryHandler renders one row per named parameter and the total count.
func (a *app) SummaryHandler(cmd *cobra.Command, args []string) error {
	enc, err := a.buildEncoder()
	if err != nil {
		return err
	}

	var data [][]string
	for _, p := range enc.Parameters() {
		data = append(data, []string{
			p.Name(),
			fmt.Sprint(p.Tensor().Shape()),
			strconv.Itoa(p.NumElements()),
		})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"NAME", "SHAPE", "PARAMS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d blocks, %d parameters\n", len(enc.Blocks), enc.NumParameters())
	return nil
}
