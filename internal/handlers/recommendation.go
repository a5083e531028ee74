package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/services"
	"github.com/lingobridge/lingobridge-backend/internal/types"
)

type RecommendationHandler struct {
	log    *logger.Logger
	recSvc services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, recSvc services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		log:    log.With("handler", "RecommendationHandler"),
		recSvc: recSvc,
	}
}

// GET /api/personalized-recommendations/:userId
func (h *RecommendationHandler) GetPersonalizedRecommendations(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing userId"})
		return
	}

	recs, err := h.recSvc.GetRecommendations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if recs == nil {
		recs = []types.ContentCandidate{}
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}
