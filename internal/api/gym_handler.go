package api

import (
	"fmt"
	"net/http"

	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GymHandler serves gym administration for the super admin and gym
// settings for managers.
type GymHandler struct {
	gymService service.GymService
	log        *zap.Logger
}

func NewGymHandler(gymService service.GymService, log *zap.Logger) *GymHandler {
	return &GymHandler{gymService: gymService, log: log}
}

type CreateGymRequest struct {
	ID              string `json:"id" binding:"required"`
	Name            string `json:"name" binding:"required"`
	ManagerPassword string `json:"managerPassword" binding:"required,min=4"`
	ProfilePhoto    string `json:"profilePhoto"`
	Email           string `json:"email" binding:"omitempty,email"`
	Phone           string `json:"phone"`
	City            string `json:"city"`
	State           string `json:"state"`
}

// UpdateGymRequest may change the id; an empty ManagerPassword keeps the current one.
type UpdateGymRequest struct {
	ID              string `json:"id"`
	Name            string `json:"name" binding:"required"`
	ManagerPassword string `json:"managerPassword" binding:"omitempty,min=4"`
	ProfilePhoto    string `json:"profilePhoto"`
	Email           string `json:"email" binding:"omitempty,email"`
	Phone           string `json:"phone"`
	City            string `json:"city"`
	State           string `json:"state"`
}

type SettingsRequest struct {
	AutoNotifyWhatsApp bool   `json:"autoNotifyWhatsApp"`
	GymName            string `json:"gymName"`
	TermsAndConditions string `json:"termsAndConditions"`
}

// ListGyms handles GET /admin/gyms
func (h *GymHandler) ListGyms(c *gin.Context) {
	gyms, err := h.gymService.List(c.Request.Context())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	if gyms == nil {
		gyms = []domain.Gym{}
	}
	c.JSON(http.StatusOK, gyms)
}

// CreateGym handles POST /admin/gyms
func (h *GymHandler) CreateGym(c *gin.Context) {
	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	gym, err := h.gymService.Create(c.Request.Context(), service.GymInput(req))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gym)
}

// UpdateGym handles PUT /admin/gyms/:gymId
func (h *GymHandler) UpdateGym(c *gin.Context) {
	var req UpdateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	gym, err := h.gymService.Update(c.Request.Context(), c.Param("gymId"), service.GymInput(req))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gym)
}

// DeleteGym handles DELETE /admin/gyms/:gymId
func (h *GymHandler) DeleteGym(c *gin.Context) {
	if err := h.gymService.Delete(c.Request.Context(), c.Param("gymId")); err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSettings handles GET /gyms/:gymId/settings
func (h *GymHandler) GetSettings(c *gin.Context) {
	settings, err := h.gymService.GetSettings(c.Request.Context(), c.Param("gymId"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SaveSettings handles PUT /gyms/:gymId/settings
func (h *GymHandler) SaveSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	settings, err := h.gymService.SaveSettings(c.Request.Context(), domain.GymSettings{
		GymID:              c.Param("gymId"),
		AutoNotifyWhatsApp: req.AutoNotifyWhatsApp,
		GymName:            req.GymName,
		TermsAndConditions: req.TermsAndConditions,
	})
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
