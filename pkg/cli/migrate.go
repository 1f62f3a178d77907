package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/repository/sqlite"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/logging"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/safe"
)

func cmdMigrate() *cli.Command {
	var dbPath string

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Initialize or upgrade the SQLite schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "sqlite-path",
				Usage:       "Path of the SQLite database file",
				Value:       "interviews.db",
				Sources:     cli.EnvVars("SCHEDULER_SQLITE_PATH"),
				Destination: &dbPath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("Migrate configuration", "path", dbPath)

			// New applies the schema, including the scheduled_date backfill
			// for databases created before that column existed.
			repo, err := sqlite.New(ctx, dbPath)
			if err != nil {
				return goerr.Wrap(err, "failed to migrate database", goerr.V("path", dbPath))
			}
			defer safe.Close(ctx, repo)

			logger.Info("Database migrated", "path", dbPath)
			return nil
		},
	}
}
