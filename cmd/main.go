package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lingobridge/lingobridge-backend/internal/chatbot"
	redisclient "github.com/lingobridge/lingobridge-backend/internal/clients/redis"
	"github.com/lingobridge/lingobridge-backend/internal/db"
	"github.com/lingobridge/lingobridge-backend/internal/handlers"
	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/middleware"
	"github.com/lingobridge/lingobridge-backend/internal/observability"
	"github.com/lingobridge/lingobridge-backend/internal/repos"
	"github.com/lingobridge/lingobridge-backend/internal/server"
	"github.com/lingobridge/lingobridge-backend/internal/services"
	"github.com/lingobridge/lingobridge-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	port := utils.GetEnv("PORT", "8080", log)
	allowOrigins := server.SplitOrigins(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log))
	chatRateLimit := utils.GetEnvAsInt("CHAT_RATE_LIMIT", 20, log)
	promptConfigPath := utils.GetEnv("CHAT_PROMPT_CONFIG", "", log)

	// Tracing
	shutdownTracing := observability.Init(context.Background(), log, observability.Config{
		ServiceName: "lingobridge-backend",
		Environment: logMode,
	})

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Warn("Auto migration failed", "error", err)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(theDB, log)
	userTokenRepo := repos.NewUserTokenRepo(theDB, log)
	documentRepo := repos.NewDocumentRepo(theDB, log)
	historyRepo := repos.NewLearningHistoryRepo(theDB, log)
	interactionRepo := repos.NewChatInteractionRepo(theDB, log)

	// Chatbot infrastructure
	contextManager := chatbot.NewContextManager(log, chatbot.DefaultMaxContextLength, chatbot.DefaultContextTTL)
	contextManager.StartSweeper(time.Minute)
	defer contextManager.Stop()

	var chatCache chatbot.Cache
	if cache, err := redisclient.NewCache(log); err != nil {
		log.Warn("Redis unavailable, using in-memory chat cache", "error", err)
		chatCache = chatbot.NewMemoryCache()
	} else {
		chatCache = cache
	}

	prompts, err := chatbot.LoadPromptConfig(promptConfigPath)
	if err != nil {
		log.Warn("Falling back to default chatbot prompts", "error", err)
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(theDB, log, userRepo, userTokenRepo, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	profileService := services.NewProfileService(theDB, log, documentRepo)
	historyService := services.NewLearningHistoryService(theDB, log, historyRepo)
	contentService := services.NewContentService(theDB, log, documentRepo)
	recommendationService := services.NewRecommendationService(theDB, log, profileService, historyService, documentRepo)
	modelClient, err := services.NewInferenceClient(log)
	if err != nil {
		log.Error("Could not init InferenceClient", "error", err)
		os.Exit(1)
	}
	chatbotService := services.NewChatbotService(theDB, log, contextManager, chatCache, modelClient, interactionRepo, prompts)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(log, chatRateLimit, time.Minute)
	defer rateLimitMiddleware.Stop()

	// Handlers
	log.Info("Setting up Handlers from main...")
	routerConfig := server.RouterConfig{
		ServiceName:           "lingobridge-backend",
		AllowOrigins:          allowOrigins,
		AuthHandler:           handlers.NewAuthHandler(log, authService),
		AuthMiddleware:        authMiddleware,
		RateLimitMiddleware:   rateLimitMiddleware,
		ProfileHandler:        handlers.NewProfileHandler(log, profileService),
		HistoryHandler:        handlers.NewLearningHistoryHandler(log, historyService),
		ContentHandler:        handlers.NewContentHandler(log, contentService),
		RecommendationHandler: handlers.NewRecommendationHandler(log, recommendationService),
		ChatbotHandler:        handlers.NewChatbotHandler(log, chatbotService),
	}

	router := server.NewRouter(routerConfig)
	log.Info("Starting HTTP server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("HTTP server exited", "error", err)
	}

	if shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}
}
