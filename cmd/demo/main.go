package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bmstu-itstech/botarena/internal/api"
	"github.com/bmstu-itstech/botarena/internal/api/handlers"
	"github.com/bmstu-itstech/botarena/internal/config"
	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/bmstu-itstech/botarena/internal/engine"
	"github.com/bmstu-itstech/botarena/internal/engine/games"
	"github.com/bmstu-itstech/botarena/internal/infrastructure/snapshot"
	"github.com/bmstu-itstech/botarena/internal/publisher"
	"github.com/bmstu-itstech/botarena/internal/publisher/ws"
	"github.com/bmstu-itstech/botarena/pkg/logger"
	"github.com/bmstu-itstech/botarena/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewWithOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Async:  cfg.Logging.Async,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting botarena demo server",
		zap.Int("port", cfg.Server.Port),
	)

	m := metrics.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := engine.NewRegistry(map[domain.GameType]engine.Executor{
		domain.RPSLS:         games.RPSLSExecutor{},
		domain.ColonelBlotto: games.ColonelBlottoExecutor{},
		domain.PenaltyKicks:  games.PenaltyKicksExecutor{},
		domain.SecurityGame:  games.SecurityGameExecutor{},
	})

	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)
	broadcaster := ws.NewBroadcaster(wsHub)

	var pub publisher.Publisher = broadcaster
	redisCache, err := snapshot.New(cfg.Redis, log, m)
	if err != nil {
		log.Warn("snapshot cache unavailable, continuing without it", zap.Error(err))
	} else {
		defer func() { _ = redisCache.Close() }()
		store := snapshot.NewStore(redisCache)
		pub = publisher.NewCachingPublisher(broadcaster, store)
		log.Info("connected snapshot cache", zap.String("addr", cfg.Redis.Address()))
	}

	loader := newInMemoryBotLoader()
	seriesStore := handlers.NewSeriesStore()

	seriesHandler := handlers.NewSeriesHandler(seriesStore, loader, registry, pub, cfg.Tournament, log, m)
	wsHandler := handlers.NewWebSocketHandler(wsHub, log)
	systemHandler := handlers.NewSystemHandler()

	server := api.NewServer(seriesHandler, wsHandler, systemHandler, cfg.CORS, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())

		metricsSrv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:           metricsMux,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			log.Info("Metrics server listening", zap.String("addr", metricsSrv.Addr))
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("Metrics server error", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("demo server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("Metrics server forced to shutdown", zap.Error(err))
		}
	}

	cancel()
	log.Info("Servers stopped gracefully")
}
