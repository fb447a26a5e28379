package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"devport-gateway/config"
	"devport-gateway/internal/log"
	"devport-gateway/internal/server"
	"devport-gateway/middleware/gate"
	"devport-gateway/middleware/gate/application"
	"devport-gateway/middleware/gate/infra"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	// Exemplo: injetando o gate diretamente no seu webserver (sem proxy)
	logger := log.Logger()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	srv := newServer(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("example server listening", zap.String("addr", cfg.ListenAddr))
	if err := server.Run(ctx, srv, nil, 5*time.Second); err != nil {
		logger.Error("example server stopped with error", zap.Error(err))
	}
}

// newServer monta o router chi com o gate e o endpoint de stats, escutando em
// cfg.ListenAddr.
func newServer(cfg config.Config) *http.Server {
	store := infra.NewMemoryStore(infra.WithShards(cfg.Store.Shards))
	stats := infra.NewMemoryStatsStore()

	r := chi.NewRouter()
	r.Use(gate.Middleware(gate.Options{
		Pipeline:      application.NewPipeline(cfg.Routes, store, infra.NewSweeper(store, cfg.Store.SweepProbability, cfg.Store.SweepMinInterval), cfg.Production),
		Stats:         stats,
		SessionCookie: cfg.SessionCookie,
	}))
	r.Get("/internal/gate/stats", statsHandler(stats, store))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Post("/api/messages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("dashboard\n"))
	})

	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}

type statsResponse struct {
	Total   infra.Counters            `json:"total"`
	ByRoute map[string]infra.Counters `json:"byRoute"`
	Entries int                       `json:"entries"`
}

func statsHandler(stats *infra.MemoryStatsStore, store *infra.MemoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(statsResponse{
			Total:   stats.Total(),
			ByRoute: stats.ByRoute(),
			Entries: store.Len(),
		})
	}
}
