package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/services"
)

type ProfileHandler struct {
	log        *logger.Logger
	profileSvc services.ProfileService
}

func NewProfileHandler(log *logger.Logger, profileSvc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		log:        log.With("handler", "ProfileHandler"),
		profileSvc: profileSvc,
	}
}

// PUT /api/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var input services.ProfileUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if err := h.profileSvc.UpdateProfile(c.Request.Context(), input); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User profile updated successfully"})
}

// GET /api/profile/:userId
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing userId"})
		return
	}
	profile, err := h.profileSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
