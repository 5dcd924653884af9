package handler

import (
	"errors"
	"net/http"
	"strconv"

	"clearclaim/internal/domain"
	"clearclaim/internal/repository"
	"clearclaim/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	claims *service.ClaimService
	repo   *repository.ClaimRepository
	users  *repository.UserRepository
}

func NewAdminHandler(claims *service.ClaimService, repo *repository.ClaimRepository, users *repository.UserRepository) *AdminHandler {
	return &AdminHandler{claims: claims, repo: repo, users: users}
}

func (h *AdminHandler) ListClaims(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !domain.IsValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListAll(status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	total, _ := h.repo.CountAll(status)
	c.JSON(http.StatusOK, gin.H{"claims": list, "total": total})
}

func (h *AdminHandler) GetClaim(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	claim, err := h.repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "claim not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"claim":               claim,
		"allowed_transitions": domain.AllowedFrom(claim.Status),
	})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus is the single entry point for admin status changes; every
// write goes through the state machine.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claim, err := h.claims.Transition(c.Request.Context(), uint(id), req.Status)
	if err != nil {
		var illegal *domain.IllegalTransitionError
		switch {
		case errors.As(err, &illegal):
			c.JSON(http.StatusBadRequest, gin.H{"error": illegal.Error(), "from": illegal.From, "to": illegal.To})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "claim not found"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.users.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	total, _ := h.users.Count()
	c.JSON(http.StatusOK, gin.H{"users": list, "total": total})
}
