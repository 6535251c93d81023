package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/ledger-bingo/api"
	"github.com/luca-patrignani/ledger-bingo/application"
	"github.com/luca-patrignani/ledger-bingo/config"
	"github.com/luca-patrignani/ledger-bingo/ledger"
	"github.com/luca-patrignani/ledger-bingo/store"
)

func main() {
	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))
	slog.SetDefault(logger)

	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}
	cfg := config.Load()

	chain := ledger.NewBlockchain(ledger.WithLogger(logger), ledger.WithSubscriberBuffer(cfg.SubscriberBuffer))
	games, err := application.NewGameOrchestrator(chain, cfg.Rules(), logger)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(games, chain, cfg, logger)
	if cfg.DatabaseURL != "" {
		conn, err := store.Open(cfg.DatabaseURL, store.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime(),
		})
		if err != nil {
			logger.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := store.Migrate(conn); err != nil {
			logger.Error("database migration failed", "error", err)
			os.Exit(1)
		}
		blocks, cancel := chain.Subscribe()
		defer cancel()
		archive := store.NewArchive(conn, logger)
		server.UseArchive(archive)
		go archive.Run(ctx, blocks)
		logger.Info("archiving blocks to postgres")
	} else {
		logger.Warn("DATABASE_URL is not set, blocks are kept in memory only")
	}

	httpServer := &http.Server{
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		logger.Error("listen failed", "error", err)
		os.Exit(1)
	}

	logger.Info("listening", "port", cfg.Port, "rules", cfg.Rules())
	if err := serve(ctx, httpServer, ln, 10*time.Second, logger); err != nil {
		logger.Error("server closed", "error", err)
		os.Exit(1)
	}
	logger.Info("server closed")
}

// serve runs srv on ln until ctx is done, then shuts it down, giving open
// requests up to grace to finish.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration, logger *slog.Logger) error {
	shutdown := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
		shutdown <- err
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdown
}
