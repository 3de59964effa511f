package http

import "github.com/gin-gonic/gin"

// Register registers the generation routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/image", h.GenerateImage)
	rg.GET("/history", h.History)
	rg.GET("/queue/:id", h.QueueItem)
}
