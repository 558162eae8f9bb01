package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/born-ml/encoder/internal/config"
	"github.com/born-ml/encoder/internal/nn"
)

const version = "v0.1.0"

// app holds the state shared by every command after flag parsing.
type app struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "encoder",
		Short:         "Transformer encoder building blocks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Configuration file path (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newVersionCmd(),
		a.newRunCmd(),
		a.newEncodeCmd(),
		a.newSummaryCmd(),
		a.newBenchCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "encoder %s\n", version)
		},
	}
}

// setup loads the configuration and installs the global logger.
func (a *app) setup(stderr io.Writer) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	a.cfg = cfg

	setupLogger(stderr, cfg.Level(), a.verbose)
	log.Debug().
		Str("config", a.configPath).
		Uint64("seed", cfg.Seed).
		Msg("configuration loaded")
	return nil
}

func setupLogger(out io.Writer, level zerolog.Level, verbose bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}

	log.Logger = log.Output(output)
}

// buildEncoder constructs the configured stack in evaluation mode.
func (a *app) buildEncoder() (*nn.Encoder, error) {
	rng := nn.NewRand(a.cfg.Seed)
	enc, err := nn.NewEncoder(a.cfg.EncoderConfig(), rng, nn.WithLogger(log.Logger))
	if err != nil {
		return nil, fmt.Errorf("building encoder: %w", err)
	}
	return enc, nil
}
