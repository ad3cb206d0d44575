package main

import (
	"io/fs"
	"log"
	"os"

	"github.com/spf13/cobra"

	dbembed "github.com/stallcraft/stallcraft/db"
	"github.com/stallcraft/stallcraft/internal/config"
	"github.com/stallcraft/stallcraft/internal/db"
	"github.com/stallcraft/stallcraft/internal/logger"
)

func main() {
	root := &cobra.Command{
		Use:           "stallcraft",
		Short:         "Content backend for the Stall Craft site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate [up|down|version|force N]",
		Short: "Apply database migrations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
			if err != nil {
				return err
			}
			logger.Init(cfg.Log.Level, cfg.Log.Format)
			migrations, err := fs.Sub(dbembed.MigrationsFS, "migrations")
			if err != nil {
				return err
			}
			return db.RunMigrate(logger.L, cfg.Postgres, migrations, args[0], args[1:])
		},
	})

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
