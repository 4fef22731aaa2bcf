package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/application/restock"
	"github.com/jhoicas/Farmacia-api/internal/application/supplier"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/cache"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/jobs"
	infrapdf "github.com/jhoicas/Farmacia-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("base de datos")
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cacheMetrics, err := cache.NewMetrics(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("métricas de caché")
	}

	// Redis compartido con el worker; sin REDIS_ADDR la caché queda en memoria del proceso.
	var intelCache ports.Cache
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no responde; las consultas irán a la base")
		}
		intelCache = cache.NewRedisCache(rdb, cfg.Cache.TTL(), cacheMetrics, log)

		// Precalentar la caché al arrancar; el worker la mantiene con el cron.
		jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer jobsClient.Close()
		if _, err := jobsClient.EnqueueWarmup(ctx, "startup", time.Minute); err != nil {
			log.Warn().Err(err).Msg("encolar warmup inicial")
		}
	} else {
		intelCache = cache.NewMemoryCache(cfg.Cache.TTL(), cacheMetrics)
	}

	authUC := auth.NewAuthUseCase(store.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	registerUC := restock.NewRegisterRestockUseCase(store.Tx, store.Products, store.Suppliers, intelCache, log)
	historyUC := restock.NewHistoryUseCase(store.Restocks)
	// PDF: hoja de pedido para el proveedor
	suggestionUC := restock.NewSuggestionUseCase(store.Products, store.Restocks, infrapdf.NewRestockSheetGenerator(), cfg.App.Name)
	intelligenceUC := supplier.NewIntelligenceUseCase(store.Suppliers, store.Products, store.Restocks, intelCache, nil, log)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		DocsEnabled: cfg.HTTP.DocsEnabled,
		DocsFile:    "./docs/swagger.json",
		Gatherer:    registry,
		Logger:      log,
	})
	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		RegisterRestock: registerUC,
		RestockHistory:  historyUC,
		Suggestions:     suggestionUC,
		Intelligence:    intelligenceUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
