package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/services"
)

type LearningHistoryHandler struct {
	log        *logger.Logger
	historySvc services.LearningHistoryService
}

func NewLearningHistoryHandler(log *logger.Logger, historySvc services.LearningHistoryService) *LearningHistoryHandler {
	return &LearningHistoryHandler{
		log:        log.With("handler", "LearningHistoryHandler"),
		historySvc: historySvc,
	}
}

// POST /api/learning-history
func (h *LearningHistoryHandler) AddLearningHistory(c *gin.Context) {
	var input services.AddHistoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}
	if err := h.historySvc.Add(c.Request.Context(), input); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Learning history added successfully"})
}

// GET /api/learning-history/:userId
func (h *LearningHistoryHandler) GetLearningHistory(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing userId"})
		return
	}
	rows, err := h.historySvc.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
