package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Farmacia-api/internal/application/supplier"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/cache"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/jobs"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/storage"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// Worker de inteligencia: precalcula en Redis los reportes de proveedores con el cron WORKER_WARMUP_CRON.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	if !cfg.Redis.Enabled() {
		log.Fatal().Msg("el worker requiere REDIS_ADDR")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("base de datos")
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	cacheMetrics, err := cache.NewMetrics(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("métricas de caché")
	}
	jobMetrics, err := jobs.NewMetrics(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("métricas de tareas")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	intelCache := cache.NewRedisCache(rdb, cfg.Cache.TTL(), cacheMetrics, log)
	intelligenceUC := supplier.NewIntelligenceUseCase(store.Suppliers, store.Products, store.Restocks, intelCache, nil, log)
	warmup := jobs.NewWarmupJob(intelligenceUC, log, jobMetrics)

	cronTask, err := jobs.NewWarmupTask("cron")
	if err != nil {
		log.Fatal().Err(err).Msg("tarea de warmup")
	}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB},
		Concurrency: cfg.Worker.Concurrency,
		Logger:      log,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskIntelligenceWarmup, Handler: warmup.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.Worker.WarmupCron, Task: cronTask, Options: []asynq.Option{asynq.Queue(jobs.QueueDefault), asynq.MaxRetry(1)}},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Str("cron", cfg.Worker.WarmupCron).Msg("configurar worker")
	}

	// Métricas del worker en HTTP_PORT+1 para no chocar con la API en la misma máquina.
	metricsAddr := config.HTTPConfig{Host: cfg.HTTP.Host, Port: cfg.HTTP.Port + 1}.Addr()
	metricsSrv := &http.Server{
		Addr:              metricsAddr,
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("servidor de métricas")
		}
	}()

	log.Info().
		Str("cron", cfg.Worker.WarmupCron).
		Int("concurrency", cfg.Worker.Concurrency).
		Str("metrics", metricsAddr).
		Msg("iniciando worker")

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker finalizado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)

	log.Info().Msg("worker detenido")
}
