package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/learnai/internal/cli"
)

func newFlashcardsCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "flashcards",
		Short: "Browse the library of generated courses and review their flashcards",
	}

	command.AddCommand(newFlashcardsListCommand())
	command.AddCommand(newFlashcardsReviewCommand())
	command.AddCommand(newFlashcardsDeleteCommand())

	return command
}

func newFlashcardsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the courses in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, app, services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Shutdown(ctx)
			}()

			entries, err := services.Library.List(ctx)
			if err != nil {
				return fmt.Errorf("library.List() > %w", err)
			}
			cli.PrintLibrary(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func newFlashcardsReviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "review <course-id> <subtopic-number>",
		Short:   "Flip through the flashcards of one subtopic",
		Example: "  learnai flashcards review course_3f2a... 1",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			subtopicNumber, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("subtopic number %q is not a number: %w", args[1], err)
			}

			ctx := cmd.Context()
			_, app, services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Shutdown(ctx)
			}()

			entry, ok, err := services.Library.Find(ctx, args[0])
			if err != nil {
				return fmt.Errorf("library.Find(%s) > %w", args[0], err)
			}
			if !ok {
				return fmt.Errorf("course %s is not in the library", args[0])
			}

			reviewCLI, err := cli.NewFlashcardReviewCLI(
				cli.NewInteractiveCLI(services.Session, cmd.InOrStdin(), cmd.OutOrStdout()),
				entry,
				subtopicNumber-1,
			)
			if err != nil {
				return err
			}
			return reviewCLI.Run(ctx, reviewCLI)
		},
	}
}

func newFlashcardsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <course-id>",
		Short: "Delete a course from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, app, services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Shutdown(ctx)
			}()

			deleted, err := services.Library.Delete(ctx, args[0])
			if err != nil {
				return fmt.Errorf("library.Delete(%s) > %w", args[0], err)
			}
			if !deleted {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Course %s is not in the library.\n", args[0])
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
			return nil
		},
	}
}
