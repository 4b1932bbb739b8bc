package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drawnet/internal/core/services"
	httphandlers "drawnet/internal/handlers/http"
	"drawnet/internal/infrastructure/middleware"
	"drawnet/internal/infrastructure/monitoring"
	"drawnet/internal/infrastructure/relay"
	"drawnet/internal/infrastructure/reliability"
	"drawnet/internal/infrastructure/repositories"
	"drawnet/pkg/circuitbreaker"
	"drawnet/pkg/config"
	"drawnet/pkg/logger"
	"drawnet/pkg/retry"
	"drawnet/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	cfg, err := config.LoadFirst(
		"configs/config.yaml",
		"./configs/config.yaml",
		"config.yaml",
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger := logger.New(cfg.Logging.Level)
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	// Tracing
	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "drawnet",
		JaegerURL:   cfg.Tracing.JaegerURL,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Errorw("error shutting down tracer provider", "error", err)
		}
	}()

	// Storage. With redis.required the factory fails fast instead of
	// silently degrading to the memory store.
	repoFactory, err := repositories.NewRepositoryFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}
	defer repoFactory.Close()

	var collector *monitoring.Collector
	if cfg.Monitoring.PrometheusEnabled {
		collector = monitoring.NewCollector()
	}

	boardRepo := reliability.NewBoardRepositoryWrapper(
		repoFactory.CreateBoardRepository(),
		retry.DefaultConfig(),
		circuitbreaker.DefaultConfig(),
		log,
	)

	// Services
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	boardService := services.NewCachedBoardService(
		services.NewBoardService(boardRepo, collector, log),
		30*time.Second,
	)
	defer boardService.Stop()

	// Relay
	registry := relay.NewRegistry(collector, log)
	relayServer := relay.NewServer(cfg, registry, authService, log)

	// Health checks
	healthChecker := monitoring.NewHealthChecker()
	healthChecker.AddCheck("store", repoFactory.HealthCheck, 2*time.Second)

	// HTTP
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware(log))
	router.Use(middleware.RequestLoggerMiddleware(logger.NewContextLogger(zapLogger)))
	router.Use(middleware.CORSMiddleware(cfg))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))

	// Public login endpoint
	httphandlers.NewAuthHandler(authService).SetupRoutes(router)

	// Session store endpoints behind bearer auth
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(authService))
	httphandlers.NewBoardHandler(boardService).SetupRoutes(api)

	// Signaling relay; the token travels as a query parameter and is checked
	// inside the handler before the upgrade.
	router.GET("/ws/:sessionId", relayServer.HandleConnection)

	router.GET("/health", func(c *gin.Context) {
		status := healthChecker.CheckAll(c.Request.Context())
		code := http.StatusOK
		if status.Status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status.Status,
			"timestamp": status.Timestamp,
			"checks":    status.Checks,
			"uptime":    time.Since(startTime).String(),
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := repoFactory.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"sessions": registry.SessionCount(),
			"peers":    registry.TotalPeers(),
		})
	})

	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting drawnet server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig)
	}

	log.Info("Shutting down drawnet server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("Error force closing server", "error", closeErr)
		}
	} else {
		log.Info("Server shutdown gracefully")
	}

	if err := repoFactory.Close(); err != nil {
		log.Errorw("Error closing repository factory", "error", err)
	}

	log.Info("drawnet server stopped")
}
