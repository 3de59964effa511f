package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptpix/go-promptpix-backend/internal/auth"
	"github.com/promptpix/go-promptpix-backend/internal/generation/domain"
	"github.com/promptpix/go-promptpix-backend/internal/generation/service"
)

type Handler struct {
	genService *service.GenerationService
}

func NewHandler(genService *service.GenerationService) *Handler {
	return &Handler{genService: genService}
}

// GenerateImage runs the full orchestration for one prompt.
func (h *Handler) GenerateImage(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.genService.Generate(c.Request.Context(), userID, req.Prompt)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyPrompt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// All orchestration failures flatten to one message field.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// History lists the user's generations, newest first, capped server-side.
func (h *Handler) History(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	generations, err := h.genService.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, generations)
}

// QueueItem reports the lifecycle state of one in-flight request.
func (h *Handler) QueueItem(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	itemID := c.Param("id")
	if itemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "queue item ID is required"})
		return
	}

	item, err := h.genService.QueueItem(c.Request.Context(), userID, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrQueueItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "queue item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}
