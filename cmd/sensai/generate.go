package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sensai-backend/internal/bootstrap"
	"sensai-backend/internal/courses"
)

//nolint:gochecknoglobals // Cobra boilerplate
var layoutParams courses.LayoutParams

//nolint:gochecknoglobals // Cobra boilerplate
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run a generation against the configured provider",
}

//nolint:gochecknoglobals // Cobra boilerplate
var generateLayoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Generate a course layout and print it as JSON",
	Long: `Generate a course layout with the provider from LLM_PROVIDER and print the
course that would be stored. Nothing is persisted.

Example:
  sensai generate layout --topic "Go concurrency" --category Programming --level Intermediate --chapters 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := bootstrap.BuildLLM(cmd.Context(), loadConfig())
		if err != nil {
			return errors.Wrap(err, "build generation client")
		}
		svc := courses.NewService(courses.NewMemoryRepo(), client, nil)
		course, err := svc.GenerateLayout(cmd.Context(), "cli", layoutParams)
		if err != nil {
			return errors.Wrap(err, "generate layout")
		}
		return printJSON(cmd.OutOrStdout(), course)
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	f := generateLayoutCmd.Flags()
	f.StringVar(&layoutParams.Topic, "topic", "", "course topic")
	f.StringVar(&layoutParams.Category, "category", "", "course category")
	f.StringVar(&layoutParams.Level, "level", courses.LevelBeginner, "Beginner, Intermediate or Advanced")
	f.StringVar(&layoutParams.Duration, "duration", "", "target duration, e.g. \"2 hours\"")
	f.IntVar(&layoutParams.Chapters, "chapters", 5, "number of chapters (1-20)")
	f.BoolVar(&layoutParams.IncludeVideo, "video", false, "mark the course for video lookup")
	_ = generateLayoutCmd.MarkFlagRequired("topic")
	_ = generateLayoutCmd.MarkFlagRequired("category")
	generateCmd.AddCommand(generateLayoutCmd)
}
