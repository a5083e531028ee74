package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/services"
)

type ContentHandler struct {
	log        *logger.Logger
	contentSvc services.ContentService
}

func NewContentHandler(log *logger.Logger, contentSvc services.ContentService) *ContentHandler {
	return &ContentHandler{
		log:        log.With("handler", "ContentHandler"),
		contentSvc: contentSvc,
	}
}

func readItemBody(c *gin.Context) (json.RawMessage, bool) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil || len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return nil, false
	}
	return raw, true
}

// POST /api/content/:node
func (h *ContentHandler) CreateItem(c *gin.Context) {
	item, ok := readItemBody(c)
	if !ok {
		return
	}
	doc, err := h.contentSvc.Create(c.Request.Context(), c.Param("node"), item)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// GET /api/content/:node
func (h *ContentHandler) ListItems(c *gin.Context) {
	docs, err := h.contentSvc.List(c.Request.Context(), c.Param("node"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// GET /api/content/:node/:key
func (h *ContentHandler) GetItem(c *gin.Context) {
	doc, err := h.contentSvc.Get(c.Request.Context(), c.Param("node"), c.Param("key"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// PUT /api/content/:node/:key
func (h *ContentHandler) UpdateItem(c *gin.Context) {
	item, ok := readItemBody(c)
	if !ok {
		return
	}
	doc, err := h.contentSvc.Update(c.Request.Context(), c.Param("node"), c.Param("key"), item)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DELETE /api/content/:node/:key
func (h *ContentHandler) DeleteItem(c *gin.Context) {
	if err := h.contentSvc.Delete(c.Request.Context(), c.Param("node"), c.Param("key")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Content item deleted"})
}
