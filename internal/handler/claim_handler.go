package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"clearclaim/internal/middleware"
	"clearclaim/internal/repository"
	"clearclaim/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ClaimHandler struct {
	svc  *service.ClaimService
	repo *repository.ClaimRepository
}

func NewClaimHandler(svc *service.ClaimService, repo *repository.ClaimRepository) *ClaimHandler {
	return &ClaimHandler{svc: svc, repo: repo}
}

func (h *ClaimHandler) Create(c *gin.Context) {
	claim, err := h.svc.Create(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, claim)
}

func (h *ClaimHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListByUserID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"claims": list})
}

func (h *ClaimHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	claim, err := h.repo.GetByIDForUser(uint(id), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "claim not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	_ = h.repo.TouchLastAccessed(claim.ID, time.Now())
	c.JSON(http.StatusOK, claim)
}

// SaveStep merges one intake step's sections into the claim. Step 2 may
// auto-route the claim to DISQUALIFIED or REPAIR_COST_PENDING.
func (h *ClaimHandler) SaveStep(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil || step < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid step"})
		return
	}
	var req service.IntakeStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claim, err := h.svc.SaveIntakeStep(c.Request.Context(), userID, uint(id), step, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "claim not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, claim)
}
