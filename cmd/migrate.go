package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "task-tracker.com/task-tracker/internal/configs"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the task schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		database, err := config.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN, nil)
		if err != nil {
			return err
		}
		defer func() { _ = config.CloseDatabase(database) }()

		if err := config.Migrate(database); err != nil {
			return err
		}

		logger.Info("task schema is up to date", zap.String("driver", cfg.DatabaseDriver))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
