package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jagimahalo/restock-backend/internal/api"
	"github.com/jagimahalo/restock-backend/internal/cache"
	"github.com/jagimahalo/restock-backend/internal/config"
	"github.com/jagimahalo/restock-backend/internal/engine"
	"github.com/jagimahalo/restock-backend/internal/repository/postgres"
	"github.com/jagimahalo/restock-backend/internal/service"
	"github.com/jagimahalo/restock-backend/internal/storage"
	"github.com/jagimahalo/restock-backend/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("report cache unavailable, running without cache")
		reportCache = cache.NewNoopReportCache()
	}

	var exporter storage.ObjectStorage
	if cfg.Export.Enabled {
		client, err := storage.NewMinioClient(cfg.Export)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("failed to initialize export storage")
		}
		exporter = client
	}

	configs := postgres.NewConfigRepository(db)
	facts := postgres.NewFactsRepository(db)
	eng := engine.New(cfg.Report.TransferDivisor)

	services := &api.Services{
		Reports: service.NewReportService(configs, facts, eng, reportCache, exporter, cfg.Report),
		Configs: service.NewConfigService(configs),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Log.Info().Msg("server exiting")
}
