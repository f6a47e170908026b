package commands

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"webhost-storefront/internal/config"
	"webhost-storefront/internal/db"
	"webhost-storefront/internal/logging"
)

var (
	cfg    config.Config
	logger *logrus.Logger
	dsn    string
)

// Execute runs the operator CLI.
func Execute() error {
	root := &cobra.Command{
		Use:          "webhostctl",
		Short:        "Operator tooling for the web hosting storefront",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.FromEnv()
			if err != nil {
				return err
			}
			logger = logging.New(cfg.LogLevel, cfg.LogFormat)
			if dsn == "" {
				dsn = cfg.DBConnString
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&dsn, "dsn", "", "postgres connection string (default $DB_DSN)")

	root.AddCommand(migrateCmd(), seedCmd(), importPlansCmd(), grantRoleCmd())
	return root.Execute()
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	return db.Connect(ctx, dsn)
}
