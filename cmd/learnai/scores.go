package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/learnai/internal/cli"
	"github.com/at-ishikawa/learnai/internal/statistics"
)

func newScoresCommand() *cobra.Command {
	var year, month int

	command := &cobra.Command{
		Use:   "scores",
		Short: "Show quiz scores and progress of the active course",
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12, got %d", month)
			}

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
			cli.PrintStatistics(cmd.OutOrStdout(), statistics.CalculateStatistics(c, services.Session.Attempts(), year, month))
			return nil
		},
	}
	command.Flags().IntVar(&year, "year", 0, "only count attempts from this year in the monthly breakdown")
	command.Flags().IntVar(&month, "month", 0, "only count attempts from this month (1-12) in the monthly breakdown")

	return command
}
