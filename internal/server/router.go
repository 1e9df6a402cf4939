package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sprachhaus/sprachhaus-backend/internal/handlers"
)

type RouterConfig struct {
	ProgressHandler *handlers.ProgressHandler
	IngestHandler   *handlers.IngestHandler
	AllowOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/students/:code/progress", cfg.ProgressHandler.GetStudentProgress)
		api.GET("/students/:code/readiness", cfg.ProgressHandler.GetReadiness)
		api.GET("/levels/:level/leaderboard", cfg.ProgressHandler.GetLeaderboard)
		if cfg.IngestHandler != nil {
			api.POST("/ingest/run", cfg.IngestHandler.RunIngestion)
		}
	}

	return router
}
