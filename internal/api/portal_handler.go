package api

import (
	"net/http"

	"alcyxob/gymledger/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PortalHandler serves the member's own view.
type PortalHandler struct {
	portalService service.PortalService
	log           *zap.Logger
}

func NewPortalHandler(portalService service.PortalService, log *zap.Logger) *PortalHandler {
	return &PortalHandler{portalService: portalService, log: log}
}

// Overview handles GET /me
func (h *PortalHandler) Overview(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		abortWithError(c, http.StatusInternalServerError, "Failed to get principal from token")
		return
	}

	overview, err := h.portalService.Overview(c.Request.Context(), principal)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
