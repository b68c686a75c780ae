package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sensai-backend/internal/extract"
	"sensai-backend/internal/resumedoc"
)

//nolint:gochecknoglobals // Cobra boilerplate
var parseCmd = &cobra.Command{
	Use:   "parse <resume.md|resume.pdf|resume.docx>",
	Short: "Print the parsed sections of a resume as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}
		text, err := extract.Text(cmd.Context(), data, "", filepath.Base(path))
		if err != nil {
			return errors.Wrap(err, "extract text")
		}
		return printJSON(cmd.OutOrStdout(), resumedoc.Parse(text))
	},
}
