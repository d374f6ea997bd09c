package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/api"
	"main/internal/config"
	"main/internal/engine"
	"main/internal/market"
	"main/internal/store"
	"main/pkg/conn"
)

const shutdownGrace = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ledger, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatalf("ledger store init failed: %v", err)
	}
	defer closeStore()

	eng := engine.New(ledger)

	var sources []market.Source
	if cfg.MarketDataDir != "" {
		sources = append(sources, market.NewCSVSource(cfg.MarketDataDir))
	}
	provider := market.NewProvider(cfg.HistoryDays, cfg.QuoteCacheTTL, sources...)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewServer(eng, provider, cfg.CORSOrigin).Handler(),
	}

	go func() {
		logs.Infof("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logs.Errorf("http server stopped, err: %+v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logs.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logs.Errorf("shutdown incomplete, err: %+v", err)
	}
}

func buildStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logs.Warn("DATABASE_URL not set, using in-memory ledger store")
		return store.NewMemory(cfg.Seed), func() {}, nil
	}

	client, err := conn.New(ctx, conn.Option{ConnString: cfg.DatabaseURL})
	if err != nil {
		return nil, nil, err
	}

	pg, err := store.NewPostgres(client.DB(), cfg.Seed, cfg.StorageTimeout)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return pg, func() { _ = client.Close() }, nil
}
