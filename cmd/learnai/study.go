package main

import (
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/learnai/internal/cli"
)

func newStudyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "study",
		Short: "Read the subtopics of the active course and take their quizzes in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, app, services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Shutdown(ctx)
			}()

			studyCLI := cli.NewStudyCLI(cli.NewInteractiveCLI(services.Session, cmd.InOrStdin(), cmd.OutOrStdout()))
			return studyCLI.Run(ctx, studyCLI)
		},
	}
}

func newQuizCommand() *cobra.Command {
	var final bool

	command := &cobra.Command{
		Use:   "quiz",
		Short: "Take the quiz of the current subtopic, or the final quiz with --final",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, app, services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Shutdown(ctx)
			}()

			quizCLI := cli.NewQuizCLI(cli.NewInteractiveCLI(services.Session, cmd.InOrStdin(), cmd.OutOrStdout()), final)
			return quizCLI.Run(ctx, quizCLI)
		},
	}
	command.Flags().BoolVar(&final, "final", false, "take the final quiz")

	return command
}
