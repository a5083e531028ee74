package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/requestdata"
	"github.com/lingobridge/lingobridge-backend/internal/services"
)

type ChatbotHandler struct {
	log        *logger.Logger
	chatbotSvc services.ChatbotService
}

func NewChatbotHandler(log *logger.Logger, chatbotSvc services.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{
		log:        log.With("handler", "ChatbotHandler"),
		chatbotSvc: chatbotSvc,
	}
}

// POST /api/chatbot
func (h *ChatbotHandler) Chat(c *gin.Context) {
	var input services.ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	// The authenticated user wins over whatever the body claims.
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != uuid.Nil {
		input.UserID = rd.UserID.String()
	}
	resp, err := h.chatbotSvc.Chat(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
