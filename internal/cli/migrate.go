package cli

import (
	"github.com/lshigami/examapp/config"
	"github.com/lshigami/examapp/database"
	"github.com/lshigami/examapp/internal/logger"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			logger.Configure(cfg.Log.Level, cfg.Log.Pretty)

			db, err := database.NewDatabase(cfg)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			return database.AutoMigrate(db)
		},
	}
}
