package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/learnai/internal/config"
	"github.com/at-ishikawa/learnai/internal/datasync"
	"github.com/at-ishikawa/learnai/internal/storage"
)

func newMigrateCommand() *cobra.Command {
	var dryRun bool
	var updateExisting bool
	var targetBackend string
	var targetDirectory string

	command := &cobra.Command{
		Use:   "migrate",
		Short: "Copy the course, quiz attempts and library from the configured storage into another backend",
		Example: `  learnai migrate --to mysql
  learnai migrate --to file --to-directory ./backup --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, app, services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Shutdown(ctx)
			}()

			targetConfig := cfg.Storage
			targetConfig.Backend = targetBackend
			if targetDirectory != "" {
				targetConfig.Directory = targetDirectory
			}
			if targetConfig.Backend == cfg.Storage.Backend && targetConfig.Directory == cfg.Storage.Directory {
				return fmt.Errorf("the target storage is the configured storage")
			}
			if targetConfig.Backend == config.StorageBackendMemory {
				return fmt.Errorf("cannot migrate into the %s backend", config.StorageBackendMemory)
			}

			target, err := storage.Open(ctx, targetConfig)
			if err != nil {
				return fmt.Errorf("storage.Open(%s) > %w", targetConfig.Backend, err)
			}
			defer func() {
				_ = target.Close()
			}()

			output := cmd.OutOrStdout()
			opts := datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			}
			result, err := datasync.NewImporter(services.Store, target, output).Import(ctx, opts)
			if err != nil {
				return fmt.Errorf("importer.Import() > %w", err)
			}

			_, _ = fmt.Fprintln(output, "\nMigration Summary:")
			if opts.DryRun {
				_, _ = fmt.Fprintln(output, "  (dry-run mode, no changes made)")
			}
			_, _ = fmt.Fprintf(output, "  %d new, %d skipped, %d updated, %d missing, %d invalid\n",
				result.New, result.Skipped, result.Updated, result.Missing, result.Invalid)
			return nil
		},
	}

	command.Flags().StringVar(&targetBackend, "to", "", "target backend: file, mysql or redis")
	command.Flags().StringVar(&targetDirectory, "to-directory", "", "target directory for the file backend")
	command.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the target")
	command.Flags().BoolVar(&updateExisting, "update-existing", false, "Overwrite values that already exist in the target")
	_ = command.MarkFlagRequired("to")
	return command
}
