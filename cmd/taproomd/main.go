// taproomd serves the drink/price/user API over a chosen storage backend.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-cz/devslog"

	"taproom"
	"taproom/gateway"
	"taproom/httpapi"
	"taproom/storage"
	"taproom/txid"
)

func main() {
	configPath := flag.String("config", os.Getenv("TAPROOM_CONFIG"), "path to the yaml config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logOpts := &devslog.Options{HandlerOptions: &slog.HandlerOptions{
		Level: level,
	}}
	log := slog.New(devslog.NewHandler(os.Stdout, logOpts))
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(cfg config, log *slog.Logger) error {
	var stg storage.Storage[[]byte]
	switch cfg.Backend {
	case backendLevelDB:
		ldb, err := storage.NewLevelDBStorage(cfg.Path)
		if err != nil {
			return err
		}
		defer ldb.Close()
		stg = ldb
	case backendTrie:
		stg = storage.NewPrefixTreeStorage[[]byte]()
	default:
		stg = storage.NewSkipmapStorage[[]byte]()
	}

	db, err := taproom.NewDatabase(stg, txid.NewAtomicIssuer())
	if err != nil {
		return err
	}
	gw, err := gateway.New(db, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           httpapi.New(gw, log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Listen, "backend", cfg.Backend)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
