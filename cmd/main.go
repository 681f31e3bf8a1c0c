package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servicelogs/internal/cache"
	"servicelogs/internal/config"
	logs_archiving "servicelogs/internal/features/logs/archiving"
	logs_controllers "servicelogs/internal/features/logs/controllers"
	system_healthcheck "servicelogs/internal/features/system/healthcheck"
	"servicelogs/internal/storage"
	cache_utils "servicelogs/internal/util/cache"
	env_utils "servicelogs/internal/util/env"
	"servicelogs/internal/util/logger"
	"servicelogs/internal/util/rate_limit"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// @title Service Logs API
// @version 1.0
// @description Query and record service call logs across PostgreSQL and SQL Server
// @host localhost:4005
// @BasePath /api/v1
// @schemes http
func main() {
	log := logger.GetLogger()
	config.StartListeningForShutdownSignal()

	backends := storage.GetBackends()
	log.Info("Data sources connected", "dataSources", backends.Types())

	testCacheConnection(log)

	gin.SetMode(gin.ReleaseMode)
	ginApp := gin.New()
	ginApp.Use(gin.Recovery())

	ginApp.Use(gzip.Gzip(gzip.DefaultCompression))

	enableCors(ginApp)
	setUpRoutes(ginApp, log)

	archivingService := logs_archiving.GetLogArchivingBackgroundService()
	archivingService.StartWorkers()

	startServerWithGracefulShutdown(log, ginApp)

	archivingService.Stop()

	if err := backends.Close(); err != nil {
		log.Error("Failed to close data sources", "error", err)
	}
}

func startServerWithGracefulShutdown(log *slog.Logger, app *gin.Engine) {
	env := config.GetEnv()

	host := ""
	if env.EnvMode == env_utils.EnvModeDevelopment {
		// for dev we use localhost to avoid firewall
		// requests on each run for Windows
		host = "127.0.0.1"
	}

	srv := &http.Server{
		Addr:              host + ":" + env.HttpPort,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen:", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	// in-flight requests get 10 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown:", "error", err)
	}

	log.Info("Server gracefully stopped")
}

func setUpRoutes(r *gin.Engine, log *slog.Logger) {
	v1 := r.Group("/api/v1")

	system_healthcheck.GetHealthcheckController().RegisterRoutes(v1)

	limited := v1.Group("")
	limited.Use(rate_limit.Middleware(rate_limit.GetApiRateLimiter(), log))

	logs_controllers.GetLogController().RegisterRoutes(limited)
}

func testCacheConnection(log *slog.Logger) {
	client := cache.GetCache()
	if client == nil {
		log.Info("Valkey is not configured, caching and shared rate limiting are disabled")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cache_utils.TestCacheConnection(ctx, client); err != nil {
		log.Error("Failed to connect to Valkey", "error", err)
		os.Exit(1)
	}

	log.Info("Valkey connection test successful")
}

func enableCors(ginApp *gin.Engine) {
	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		ginApp.Use(cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders: []string{
				"Origin",
				"Content-Length",
				"Content-Type",
				"Accept",
				"Accept-Language",
				"Accept-Encoding",
			},
		}))
	}
}
