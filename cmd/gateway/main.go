package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"devport-gateway/config"
	"devport-gateway/internal/log"
	"devport-gateway/internal/server"
	"devport-gateway/middleware/gate"
	"devport-gateway/middleware/gate/application"
	"devport-gateway/middleware/gate/domain"
	"devport-gateway/middleware/gate/infra"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	logger := log.Logger()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}
	if cfg.UpstreamURL == "" {
		logger.Fatal("UPSTREAM_URL is required")
	}

	target, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		logger.Fatal("invalid UPSTREAM_URL", zap.Error(err))
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("proxy error", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	store := infra.NewMemoryStore(infra.WithShards(cfg.Store.Shards))
	sweeper := infra.NewSweeper(store, cfg.Store.SweepProbability, cfg.Store.SweepMinInterval)
	pipeline := application.NewPipeline(cfg.Routes, store, sweeper, cfg.Production)

	var stats *infra.AsyncStats
	if cfg.Stats.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Stats.RedisAddr,
			Password: cfg.Stats.RedisPassword,
			DB:       cfg.Stats.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatal("redis stats ping error", zap.Error(err))
		}

		stats = infra.NewAsyncStats(infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.Stats.Prefix),
			infra.WithStatsTTL(cfg.Stats.TTL),
			infra.WithStatsBucket(cfg.Stats.Bucket),
			infra.WithStatsTrackKeys(cfg.Stats.TrackKeys),
		), cfg.Stats.Buffer, time.Second)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	h := http.Handler(proxy)
	h = gate.ConcurrencyMiddleware(gate.ConcurrencyOptions{
		Max:            cfg.Concurrency.Max,
		RejectStatus:   http.StatusServiceUnavailable,
		AcquireTimeout: cfg.Concurrency.Timeout,
	})(h)
	h = gate.Middleware(gate.Options{
		Pipeline:      pipeline,
		Stats:         statsStore(stats),
		SessionCookie: cfg.SessionCookie,
	})(h)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	var onStop []server.StopFunc
	if stats != nil {
		onStop = append(onStop, func(ctx context.Context) error {
			if err := stats.Close(ctx); err != nil {
				return fmt.Errorf("stats drain incomplete (dropped=%d): %w", stats.Dropped(), err)
			}
			return nil
		})
	}

	logger.Info("gateway listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("upstream", target.String()),
		zap.Bool("production", cfg.Production))
	logger.Info("rate limit",
		zap.Int("policies", len(cfg.Routes.RatePolicies)),
		zap.Float64("sweepProbability", cfg.Store.SweepProbability),
		zap.Int("shards", cfg.Store.Shards),
		// contadores em memória: cada instância limita por conta própria
		zap.String("scope", "process"))
	logger.Info("rate stats", zap.Bool("enabled", cfg.Stats.Enabled), zap.String("redisAddr", cfg.Stats.RedisAddr))
	logger.Info("concurrency", zap.Int("max", cfg.Concurrency.Max), zap.Duration("acquireTimeout", cfg.Concurrency.Timeout))

	// Run só retorna depois do Shutdown e do drain de stats; o defer do
	// rdb.Close roda depois disso.
	if err := server.Run(ctx, srv, nil, 10*time.Second, onStop...); err != nil {
		logger.Error("gateway stopped with error", zap.Error(err))
		return
	}
	logger.Info("gateway stopped")
}

// statsStore evita guardar um *AsyncStats nil dentro da interface.
func statsStore(s *infra.AsyncStats) domain.StatsStore {
	if s == nil {
		return nil
	}
	return s
}
