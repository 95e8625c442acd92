package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/learnai/internal/bootstrap"
	"github.com/at-ishikawa/learnai/internal/cli"
	"github.com/at-ishikawa/learnai/internal/generator"
)

const generationFailedMessage = "Failed to generate course. Please try again."

func newGenerateCommand() *cobra.Command {
	var topic string
	var subtopics []string

	command := &cobra.Command{
		Use:   "generate",
		Short: "Generate a course for a topic and install it as the active course",
		Example: `  learnai generate --topic Algebra --subtopic "Linear Equations" --subtopic Quadratics
  learnai generate --topic Physics --subtopic Kinematics,Dynamics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, app, services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Shutdown(ctx)
			}()

			courseGenerator, err := bootstrap.NewGenerator(app, cfg)
			if err != nil {
				return err
			}

			output := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(output, "Generating a course on %q with %s...\n", topic, cfg.Generation.Provider)
			generated, err := courseGenerator.Generate(ctx, generator.Request{Topic: topic, Subtopics: subtopics})
			if err != nil {
				if errors.Is(err, generator.ErrInvalidRequest) {
					return err
				}
				slog.Default().Error("course generation failed", slog.Any("error", err))
				_, _ = color.New(color.FgRed).Fprintln(output, generationFailedMessage)
				return fmt.Errorf("generate course: %w", err)
			}

			entry, err := services.Session.InstallCourse(ctx, generated)
			if err != nil {
				return fmt.Errorf("session.InstallCourse() > %w", err)
			}

			_, _ = color.New(color.FgGreen).Fprintf(output, "Installed %q (%s)\n\n", generated.Topic, entry.ID)
			cli.PrintCourseOverview(output, generated)
			_, _ = fmt.Fprintln(output, "\nRun `learnai study` to start.")
			return nil
		},
	}
	command.Flags().StringVarP(&topic, "topic", "t", "", "topic of the course")
	command.Flags().StringSliceVarP(&subtopics, "subtopic", "s", nil, "subtopic to cover; repeat or separate with commas")
	_ = command.MarkFlagRequired("topic")
	_ = command.MarkFlagRequired("subtopic")

	return command
}
