package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/lingobridge/lingobridge-backend/internal/handlers"
	"github.com/lingobridge/lingobridge-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName           string
	AllowOrigins          []string
	AuthHandler           *handlers.AuthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	RateLimitMiddleware   *middleware.RateLimitMiddleware
	ProfileHandler        *handlers.ProfileHandler
	HistoryHandler        *handlers.LearningHistoryHandler
	ContentHandler        *handlers.ContentHandler
	RecommendationHandler *handlers.RecommendationHandler
	ChatbotHandler        *handlers.ChatbotHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)

	api := protected.Group("/api")
	{
		// Recommendations
		api.GET("/personalized-recommendations/:userId", cfg.RecommendationHandler.GetPersonalizedRecommendations)

		// Learning history
		api.POST("/learning-history", cfg.HistoryHandler.AddLearningHistory)
		api.GET("/learning-history/:userId", cfg.HistoryHandler.GetLearningHistory)

		// Learner profiles
		api.PUT("/profile", cfg.ProfileHandler.UpdateProfile)
		api.GET("/profile/:userId", cfg.ProfileHandler.GetProfile)

		// Content administration
		api.POST("/content/:node", cfg.ContentHandler.CreateItem)
		api.GET("/content/:node", cfg.ContentHandler.ListItems)
		api.GET("/content/:node/:key", cfg.ContentHandler.GetItem)
		api.PUT("/content/:node/:key", cfg.ContentHandler.UpdateItem)
		api.DELETE("/content/:node/:key", cfg.ContentHandler.DeleteItem)

		// Chatbot
		api.POST("/chatbot", cfg.RateLimitMiddleware.Limit(), cfg.ChatbotHandler.Chat)
	}

	return router
}

func SplitOrigins(raw string) []string {
	var out []string
	for _, origin := range strings.Split(raw, ",") {
		if o := strings.TrimSpace(origin); o != "" {
			out = append(out, o)
		}
	}
	return out
}
