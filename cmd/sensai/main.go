// Command sensai is a developer CLI for the parsing and generation pieces of
// the API: parse resumes, render prompts and run a layout generation.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sensai-backend/internal/shared/config"
	"sensai-backend/internal/shared/telemetry"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "sensai",
	Short: "Inspect resume parsing and AI prompts",
	Long: `sensai exposes the building blocks of the career-coach API on the command line.

Use it to check how a resume is split into sections, to review the exact prompt
a feature sends to the model, or to run a course layout generation against the
configured provider.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			telemetry.Init("dev")
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log generation calls to stderr")
	rootCmd.AddCommand(parseCmd, promptCmd, generateCmd)
}

func loadConfig() config.Config {
	return config.Load()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
