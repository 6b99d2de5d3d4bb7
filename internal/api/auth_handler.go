package api

import (
	"fmt"
	"net/http"

	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// --- Request/Response Structs ---

type LoginRequest struct {
	Role     domain.Role `json:"role" binding:"required,oneof=SUPER_ADMIN MANAGER MEMBER"`
	GymID    string      `json:"gymId" binding:"required_unless=Role SUPER_ADMIN"`
	Username string      `json:"username" binding:"required_unless=Role MANAGER"`
	Password string      `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string           `json:"token"`
	Principal domain.Principal `json:"principal"`
}

// --- Handler Methods ---

// Login godoc
// @Summary Log in as super admin, gym manager or member
// @Description Authenticates against the credential store of the role and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 429 {object} gin.H "Too many login attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, principal, err := h.authService.Login(c.Request.Context(), service.LoginRequest{
		Role:     req.Role,
		GymID:    req.GymID,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, Principal: principal})
}

// Session handles GET /auth/session and returns the principal carried by the token.
func (h *AuthHandler) Session(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		abortWithError(c, http.StatusInternalServerError, "Failed to get principal from token")
		return
	}
	c.JSON(http.StatusOK, principal)
}
