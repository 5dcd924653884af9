package handler

import (
	"errors"
	"net/http"
	"strconv"

	"clearclaim/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DigestHandler exposes the API-key-guarded trigger surface for the digest
// pipeline: the daily cron callback and a per-user on-demand run.
type DigestHandler struct {
	digest *service.DigestService
}

func NewDigestHandler(digest *service.DigestService) *DigestHandler {
	return &DigestHandler{digest: digest}
}

func (h *DigestHandler) RunDaily(c *gin.Context) {
	h.digest.RunDailyDigest(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *DigestHandler) RunUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := h.digest.RunUserDigest(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "digest failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
