package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pterm/pterm"

	"github.com/luca-patrignani/ledger-bingo/config"
)

func main() {
	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))

	dir := flag.String("dir", "db/migrations", "directory holding the SQL migrations")
	down := flag.Bool("down", false, "roll every migration back instead of applying them")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}
	dsn := config.Load().DatabaseURL
	if dsn == "" {
		logger.Error("DATABASE_URL is not set")
		os.Exit(1)
	}

	m, err := migrate.New("file://"+*dir, dsn)
	if err != nil {
		logger.Error("migration setup failed", "error", err)
		os.Exit(1)
	}
	defer m.Close()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("database migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations applied", "down", *down)
}
