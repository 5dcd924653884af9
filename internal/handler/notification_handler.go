package handler

import (
	"errors"
	"net/http"
	"strconv"

	"clearclaim/internal/middleware"
	"clearclaim/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	repo  *repository.NotificationRepository
	prefs *repository.PreferenceRepository
}

func NewNotificationHandler(repo *repository.NotificationRepository, prefs *repository.PreferenceRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo, prefs: prefs}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListByUserID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	unread, _ := h.repo.CountUnread(userID)
	c.JSON(http.StatusOK, gin.H{"notifications": list, "unread": unread})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	unread, err := h.repo.CountUnread(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": unread})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.repo.MarkRead(uint(id), userID); err != nil {
		// A foreign notification id reads as not-found.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.repo.MarkAllRead(middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.repo.Delete(uint(id), userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.prefs.GetOrCreate(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

type updatePreferencesRequest struct {
	EnableEmailNotifications *bool   `json:"enable_email_notifications"`
	EnableSmsNotifications   *bool   `json:"enable_sms_notifications"`
	EmailDigestTime          *string `json:"email_digest_time"`
	Timezone                 *string `json:"timezone"`
}

func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req updatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Lazy-create before a partial update so defaults apply to untouched fields.
	if _, err := h.prefs.GetOrCreate(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	fields := map[string]interface{}{}
	if req.EnableEmailNotifications != nil {
		fields["enable_email_notifications"] = *req.EnableEmailNotifications
	}
	if req.EnableSmsNotifications != nil {
		fields["enable_sms_notifications"] = *req.EnableSmsNotifications
	}
	if req.EmailDigestTime != nil {
		fields["email_digest_time"] = *req.EmailDigestTime
	}
	if req.Timezone != nil {
		fields["timezone"] = *req.Timezone
	}
	if len(fields) > 0 {
		if err := h.prefs.Update(userID, fields); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
	}
	prefs, err := h.prefs.GetOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}
