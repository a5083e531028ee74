package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lingobridge/lingobridge-backend/internal/apierr"
	"github.com/lingobridge/lingobridge-backend/internal/chatbot"
	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/repos"
	"github.com/lingobridge/lingobridge-backend/internal/types"
)

const (
	chatCacheTTL   = time.Hour
	chatMaxRetries = 3
	chatDefaultLLM = "microsoft/DialoGPT-medium"
	chatMaxMessage = 1000
)

type ChatInput struct {
	UserID      string `json:"userId"`
	Message     string `json:"message"`
	Model       string `json:"model"`
	SkipCache   bool   `json:"skipCache"`
	SkipContext bool   `json:"skipContext"`
}

type ChatResponse struct {
	Status    string           `json:"status"`
	Reply     string           `json:"reply"`
	Analysis  chatbot.Analysis `json:"analysis"`
	FromCache bool             `json:"fromCache"`
}

type ChatbotService interface {
	Chat(ctx context.Context, input ChatInput) (*ChatResponse, error)
}

type chatbotService struct {
	db              *gorm.DB
	log             *logger.Logger
	contextManager  *chatbot.ContextManager
	cache           chatbot.Cache
	modelClient     ModelClient
	interactionRepo repos.ChatInteractionRepo
	prompts         chatbot.PromptConfig
}

func NewChatbotService(
	db *gorm.DB,
	log *logger.Logger,
	contextManager *chatbot.ContextManager,
	cache chatbot.Cache,
	modelClient ModelClient,
	interactionRepo repos.ChatInteractionRepo,
	prompts chatbot.PromptConfig,
) ChatbotService {
	serviceLog := log.With("service", "ChatbotService")
	return &chatbotService{
		db:              db,
		log:             serviceLog,
		contextManager:  contextManager,
		cache:           cache,
		modelClient:     modelClient,
		interactionRepo: interactionRepo,
		prompts:         prompts,
	}
}

func (cs *chatbotService) Chat(ctx context.Context, input ChatInput) (*ChatResponse, error) {
	message := strings.TrimSpace(input.Message)
	if len(message) == 0 || len(message) > chatMaxMessage {
		return nil, apierr.Validation("Message must be between 1 and 1000 characters")
	}
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, apierr.Validation("Missing userId")
	}

	cacheKey := fmt.Sprintf("chat_%s_%s", userID, message)
	if !input.SkipCache {
		if cached, err := cs.cache.Get(ctx, cacheKey); err != nil {
			// Cache trouble never blocks a reply.
			cs.log.Warn("Chat cache read failed", "error", err)
		} else if cached != nil {
			var resp ChatResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				resp.FromCache = true
				cs.logInteraction(ctx, userID, message, resp.Reply, resp.Analysis, true)
				return &resp, nil
			}
			cs.log.Warn("Discarding undecodable cached chat response", "key", cacheKey)
		}
	}

	analysis := chatbot.AnalyzeMessage(message)

	contextString := ""
	if !input.SkipContext {
		contextString = cs.contextManager.Formatted(userID)
	}
	prompt := cs.prompts.BuildPrompt(contextString, message)

	model := strings.TrimSpace(input.Model)
	if model == "" {
		model = chatDefaultLLM
	}

	reply, genErr := cs.generateWithRetries(ctx, model, prompt)
	if genErr != nil {
		cs.log.Error("Falling back after repeated model failures", "error", genErr)
		reply = cs.prompts.FallbackReply
	}

	resp := &ChatResponse{
		Status:   "success",
		Reply:    reply,
		Analysis: analysis,
	}

	if !input.SkipContext {
		cs.contextManager.Update(userID, message, reply)
	}
	if !input.SkipCache && genErr == nil {
		if encoded, err := json.Marshal(resp); err == nil {
			if err := cs.cache.Set(ctx, cacheKey, encoded, chatCacheTTL); err != nil {
				cs.log.Warn("Chat cache write failed", "error", err)
			}
		}
	}
	cs.logInteraction(ctx, userID, message, reply, analysis, false)

	return resp, nil
}

func (cs *chatbotService) generateWithRetries(ctx context.Context, model, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= chatMaxRetries; attempt++ {
		reply, err := cs.modelClient.Generate(ctx, model, prompt)
		if err == nil && strings.TrimSpace(reply) != "" {
			return reply, nil
		}
		if err == nil {
			err = fmt.Errorf("empty response from language model")
		}
		lastErr = err
		cs.log.Warn("Model generation attempt failed", "attempt", attempt, "error", err)

		if attempt < chatMaxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}
	return "", lastErr
}

func (cs *chatbotService) logInteraction(ctx context.Context, userID, message, reply string, analysis chatbot.Analysis, fromCache bool) {
	encoded, err := json.Marshal(analysis)
	if err != nil {
		encoded = nil
	}
	row := &types.ChatInteraction{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		Response:  reply,
		Analysis:  encoded,
		FromCache: fromCache,
	}
	if _, err := cs.interactionRepo.Create(ctx, nil, []*types.ChatInteraction{row}); err != nil {
		cs.log.Warn("Failed to log chat interaction", "error", err)
	}
}
