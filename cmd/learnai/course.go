package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/learnai/internal/cli"
	"github.com/at-ishikawa/learnai/internal/export"
)

const noCourseMessage = "No course yet. Generate one with `learnai generate` first."

func newCourseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "course",
		Short: "Show the active course and its progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, app, services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Shutdown(ctx)
			}()

			c, ok := services.Session.Course()
			if !ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), noCourseMessage)
				return nil
			}
			cli.PrintCourseOverview(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

func newClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the active course and its quiz attempts; the library is kept",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, app, services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Shutdown(ctx)
			}()

			if err := services.Session.Clear(ctx); err != nil {
				return fmt.Errorf("session.Clear() > %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cleared the active course and its quiz attempts.")
			return nil
		},
	}
}

func newExportCommand() *cobra.Command {
	var format string

	command := &cobra.Command{
		Use:   "export",
		Short: "Export the active course as markdown, PDF or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg, app, services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Shutdown(ctx)
			}()

			c, ok := services.Session.Course()
			if !ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), noCourseMessage)
				return nil
			}

			path, err := export.NewExporter(cfg.Outputs.Directory, cfg.Templates.CourseTemplate).Export(c, exportFormat)
			if err != nil {
				return fmt.Errorf("export.Export() > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %q to %s\n", c.Topic, path)
			return nil
		},
	}
	command.Flags().StringVarP(&format, "format", "f", string(export.FormatMarkdown), "output format: markdown, pdf or yaml")

	return command
}
