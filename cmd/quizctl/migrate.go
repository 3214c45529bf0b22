package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Shynif/nuit-de-linfo-2025/pkg/database"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations (DATABASE_URL)",
		Action: func(ctx *cli.Context) error {
			db, err := database.Connect(database.ConfigFromEnv())
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(ctx.Context, db); err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, "migrations applied")
			return nil
		},
	}
}
