package api

import (
	"fmt"
	"net/http"
	"time"

	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/messaging"
	"alcyxob/gymledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MemberHandler serves the member management routes of a gym manager.
type MemberHandler struct {
	memberService service.MemberService
	photoService  service.PhotoService
	log           *zap.Logger
}

func NewMemberHandler(memberService service.MemberService, photoService service.PhotoService, log *zap.Logger) *MemberHandler {
	return &MemberHandler{memberService: memberService, photoService: photoService, log: log}
}

// --- Request/Response Structs ---

type RegisterMemberRequest struct {
	Name             string               `json:"name" binding:"required"`
	Phone            string               `json:"phone"`
	Age              int                  `json:"age" binding:"gte=0"`
	Username         string               `json:"username"`
	Password         string               `json:"password" binding:"required,min=4"`
	PlanDurationDays int                  `json:"planDurationDays" binding:"required,gt=0,lte=36500"`
	AmountPaid       decimal.Decimal      `json:"amountPaid"`
	PaymentMethod    domain.PaymentMethod `json:"paymentMethod" binding:"omitempty,oneof=ONLINE OFFLINE"`
	Height           string               `json:"height"`
	Weight           string               `json:"weight"`
	Address          string               `json:"address"`
	Goal             domain.Goal          `json:"goal"`
	Notes            string               `json:"notes"`
}

type UpdateMemberRequest struct {
	Name     *string      `json:"name"`
	Phone    *string      `json:"phone"`
	Age      *int         `json:"age" binding:"omitempty,gte=0"`
	Username *string      `json:"username"`
	Password *string      `json:"password" binding:"omitempty,min=4"`
	Height   *string      `json:"height"`
	Weight   *string      `json:"weight"`
	Address  *string      `json:"address"`
	Goal     *domain.Goal `json:"goal"`
	Notes    *string      `json:"notes"`
}

type ExtendPlanRequest struct {
	Days   *int            `json:"days" binding:"required,gte=0,lte=36500"`
	Amount decimal.Decimal `json:"amount"`
}

type SupplementRequest struct {
	ProductName string          `json:"productName" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	EndDate     *time.Time      `json:"endDate"`
}

type MessageRequest struct {
	Kind string `json:"kind" binding:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmPhotoRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// MemberDetailResponse is a member with presigned links to its photos.
type MemberDetailResponse struct {
	*service.MemberView
	PhotoURLs service.PhotoURLs `json:"photoUrls"`
}

// --- Handler Methods ---

func (h *MemberHandler) memberID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("memberId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ListMembers godoc
// @Summary List the members of a gym
// @Tags Members
// @Produce json
// @Param search query string false "Name or phone substring"
// @Param status query string false "ALL, ACTIVE, EXPIRING_SOON or EXPIRED"
// @Success 200 {array} service.MemberView
// @Failure 400 {object} gin.H "Unknown status filter"
// @Router /gyms/{gymId}/members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	status, err := service.ParseStatusFilter(c.Query("status"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	members, err := h.memberService.List(c.Request.Context(), c.Param("gymId"), service.MemberQuery{
		Search: c.Query("search"),
		Status: status,
	})
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// RegisterMember godoc
// @Summary Register a member
// @Description Starts the plan now and records the joining fee as the first payment.
// @Tags Members
// @Accept json
// @Produce json
// @Param member body RegisterMemberRequest true "Member details"
// @Success 201 {object} service.MemberView
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Username already taken"
// @Router /gyms/{gymId}/members [post]
func (h *MemberHandler) RegisterMember(c *gin.Context) {
	var req RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	view, err := h.memberService.Register(c.Request.Context(), c.Param("gymId"), service.RegisterMemberInput{
		NewMemberParams: domain.NewMemberParams{
			Name:             req.Name,
			Phone:            req.Phone,
			Age:              req.Age,
			Username:         req.Username,
			PlanDurationDays: req.PlanDurationDays,
			AmountPaid:       req.AmountPaid,
			PaymentMethod:    req.PaymentMethod,
			Height:           req.Height,
			Weight:           req.Weight,
			Address:          req.Address,
			Goal:             req.Goal,
			Notes:            req.Notes,
		},
		Password: req.Password,
	})
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetMember handles GET /gyms/:gymId/members/:memberId
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	view, err := h.memberService.Get(ctx, c.Param("gymId"), id)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	urls, err := h.photoService.DownloadURLs(ctx, view.Photos)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MemberDetailResponse{MemberView: view, PhotoURLs: urls})
}

// UpdateMember handles PATCH /gyms/:gymId/members/:memberId
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}
	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	view, err := h.memberService.UpdateProfile(c.Request.Context(), c.Param("gymId"), id, service.UpdateMemberInput(req))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ExtendPlan godoc
// @Summary Extend a membership
// @Description Records the payment and pushes the expiry forward from the later of now and the current expiry.
// @Tags Members
// @Accept json
// @Produce json
// @Param extension body ExtendPlanRequest true "Days and amount"
// @Success 200 {object} service.MemberView
// @Failure 400 {object} gin.H "Negative days or amount"
// @Failure 404 {object} gin.H "Member not found"
// @Failure 409 {object} gin.H "Concurrent modification"
// @Router /gyms/{gymId}/members/{memberId}/extend [post]
func (h *MemberHandler) ExtendPlan(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}
	var req ExtendPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	view, err := h.memberService.ExtendPlan(c.Request.Context(), c.Param("gymId"), id, *req.Days, req.Amount)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// BillSupplement handles POST /gyms/:gymId/members/:memberId/supplements
func (h *MemberHandler) BillSupplement(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}
	var req SupplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	view, err := h.memberService.BillSupplement(c.Request.Context(), c.Param("gymId"), id, service.SupplementInput(req))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// DashboardStats handles GET /gyms/:gymId/stats
func (h *MemberHandler) DashboardStats(c *gin.Context) {
	stats, err := h.memberService.DashboardStats(c.Request.Context(), c.Param("gymId"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DraftMessage handles POST /gyms/:gymId/members/:memberId/message
func (h *MemberHandler) DraftMessage(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	kind, err := messaging.ParseMessageType(req.Kind)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	text, err := h.memberService.DraftMessage(c.Request.Context(), c.Param("gymId"), id, kind)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: text})
}

// RequestPhotoUpload handles POST /gyms/:gymId/members/:memberId/photos/:kind/upload-url
func (h *MemberHandler) RequestPhotoUpload(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}
	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	upload, err := h.photoService.RequestUpload(c.Request.Context(), c.Param("gymId"), id, domain.PhotoKind(c.Param("kind")), req.ContentType)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// ConfirmPhotoUpload handles PUT /gyms/:gymId/members/:memberId/photos/:kind
func (h *MemberHandler) ConfirmPhotoUpload(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}
	var req ConfirmPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	member, err := h.photoService.ConfirmUpload(c.Request.Context(), c.Param("gymId"), id, domain.PhotoKind(c.Param("kind")), req.ObjectKey)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, member.Photos)
}
