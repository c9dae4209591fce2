package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/medrecords/internal/buildinfo"
	"github.com/dmitrijs2005/medrecords/internal/client/cli"
	"github.com/dmitrijs2005/medrecords/internal/client/client"
	"github.com/dmitrijs2005/medrecords/internal/client/config"
	"github.com/dmitrijs2005/medrecords/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/medrecords/internal/client/session"
	"github.com/dmitrijs2005/medrecords/internal/client/tokens"
	"github.com/dmitrijs2005/medrecords/internal/logging"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code. Deferred cleanup runs before main exits.
func run() int {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	if z, ok := logger.(*logging.ZapLogger); ok {
		defer func() { _ = z.Sync() }()
	}

	db, err := client.InitDatabase(ctx, cfg.TokenDBPath)
	if err != nil {
		logger.Error(ctx, "failed to open local database", "path", cfg.TokenDBPath, "error", err)
		return 1
	}
	defer db.Close()

	store, meta := localState(db, cfg.TokenDBPath, logger)

	gw, err := client.NewGateway(cfg.APIBaseURL, store, client.Options{
		Timeout:         cfg.RequestTimeout,
		CoalesceRefresh: cfg.CoalesceRefresh,
		Logger:          logger,
	})
	if err != nil {
		logger.Error(ctx, "invalid api configuration", "error", err)
		return 1
	}

	sess := session.New(gw, store, logger)
	defer sess.Close()

	app := cli.NewApp(cfg, sess, client.NewRecords(gw), store, meta, logger)
	app.Run(ctx)
	return 0
}

// localState picks where credentials live. With the in-memory database
// they are kept in process memory only.
func localState(db *sql.DB, dsn string, logger logging.Logger) (tokens.Store, metadata.Repository) {
	meta := metadata.NewSQLiteRepository(db)
	if dsn == client.MemoryDSN {
		return tokens.NewMemoryStore(), meta
	}
	return tokens.NewSQLiteStore(db, logger), meta
}
