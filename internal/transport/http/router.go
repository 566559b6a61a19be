package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type RouterConfig struct {
	AllowedOrigins []string
	Games          *GameHandler
	WebSocket      http.HandlerFunc
	Log            *zap.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(cfg.Log), gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, cfg.Log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/games")
	{
		api.POST("", cfg.Games.CreateGame)
		api.GET("", cfg.Games.ListGames)
		api.GET("/:id", cfg.Games.GetGame)
		api.GET("/:id/board", cfg.Games.GetBoard)
		api.POST("/:id/moves", cfg.Games.MakeMove)
		api.POST("/:id/reset", cfg.Games.ResetGame)
		api.DELETE("/:id", cfg.Games.DeleteGame)
	}

	if cfg.WebSocket != nil {
		router.GET("/ws", gin.WrapF(cfg.WebSocket))
	}

	return router
}
