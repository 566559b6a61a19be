package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4/internal/config"
	"github.com/iamasit07/connect4/internal/repository/memory"
	"github.com/iamasit07/connect4/internal/repository/redis"
	"github.com/iamasit07/connect4/internal/service/cleanup"
	"github.com/iamasit07/connect4/internal/service/game"
	transportHttp "github.com/iamasit07/connect4/internal/transport/http"
	"github.com/iamasit07/connect4/internal/transport/websocket"
	"github.com/iamasit07/connect4/pkg/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()

	logr, err := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logr.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Snapshot cache: Redis when reachable, process memory otherwise
	var store game.SnapshotStore = memory.NewSnapshotStore()
	if cfg.RedisEnabled {
		if err := redis.InitRedis(cfg.RedisURL, cfg.RedisPassword, logr); err != nil {
			logr.Warn("failed to initialize redis", zap.Error(err))
		}
		defer redis.CloseRedis()

		if redis.IsRedisEnabled() && redis.RedisClient != nil {
			store = redis.NewSnapshotCache(redis.RedisClient, cfg.SnapshotTTL)
		}
	}

	// 2. Services
	connManager := websocket.NewConnectionManager(logr)
	sessionManager := game.NewManager(store, connManager, logr)

	// 3. Background workers
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cleanupWorker := cleanup.NewWorker(sessionManager, cfg.CleanupInterval, cfg.GameIdleTTL, logr)
	workerDone := cleanupWorker.Start(ctx)

	// 4. Handlers and router
	gameHandler := transportHttp.NewGameHandler(sessionManager, cfg.BoardHeight, cfg.BoardWidth, logr)
	wsHandler := websocket.NewHandler(connManager, sessionManager, cfg.AllowedOrigins, logr)

	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Games:          gameHandler,
		WebSocket:      wsHandler.HandleWebSocket,
		Log:            logr,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logr.Info("server starting", zap.String("port", cfg.Port),
			zap.Int("default_height", cfg.BoardHeight), zap.Int("default_width", cfg.BoardWidth))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logr.Info("server is shutting down")

	stop()
	<-workerDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Fatal("server forced to shutdown", zap.Error(err))
	}

	logr.Info("server exited gracefully")
}
