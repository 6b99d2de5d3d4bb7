package api

import (
	"net/http"

	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services bundles the service layer the routes dispatch to.
type Services struct {
	Auth    service.AuthService
	Gyms    service.GymService
	Members service.MemberService
	Photos  service.PhotoService
	Reports service.ReportService
	Portal  service.PortalService
}

func SetupRoutes(router *gin.Engine, services Services, loginLimiter *RateLimiter, log *zap.Logger) {
	authHandler := NewAuthHandler(services.Auth, log)
	gymHandler := NewGymHandler(services.Gyms, log)
	memberHandler := NewMemberHandler(services.Members, services.Photos, log)
	reportHandler := NewReportHandler(services.Reports, log)
	portalHandler := NewPortalHandler(services.Portal, log)

	authMiddleware := AuthMiddleware(services.Auth)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			login := []gin.HandlerFunc{authHandler.Login}
			if loginLimiter != nil {
				login = append([]gin.HandlerFunc{loginLimiter.Middleware()}, login...)
			}
			authGroup.POST("/login", login...)
			authGroup.GET("/session", authMiddleware, authHandler.Session)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Super Admin: tenant management ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleSuperAdmin))
		{
			adminGroup.GET("/gyms", gymHandler.ListGyms)
			adminGroup.POST("/gyms", gymHandler.CreateGym)
			adminGroup.PUT("/gyms/:gymId", gymHandler.UpdateGym)
			adminGroup.DELETE("/gyms/:gymId", gymHandler.DeleteGym)
		}

		// --- Manager: members and billing of one gym ---
		gymGroup := protected.Group("/gyms/:gymId")
		gymGroup.Use(RoleMiddleware(domain.RoleManager), GymScopeMiddleware())
		{
			gymGroup.GET("/members", memberHandler.ListMembers)
			gymGroup.POST("/members", memberHandler.RegisterMember)
			gymGroup.GET("/members/:memberId", memberHandler.GetMember)
			gymGroup.PATCH("/members/:memberId", memberHandler.UpdateMember)
			gymGroup.POST("/members/:memberId/extend", memberHandler.ExtendPlan)
			gymGroup.POST("/members/:memberId/supplements", memberHandler.BillSupplement)
			gymGroup.POST("/members/:memberId/message", memberHandler.DraftMessage)
			gymGroup.POST("/members/:memberId/photos/:kind/upload-url", memberHandler.RequestPhotoUpload)
			gymGroup.PUT("/members/:memberId/photos/:kind", memberHandler.ConfirmPhotoUpload)

			gymGroup.GET("/stats", memberHandler.DashboardStats)
			gymGroup.GET("/reports", reportHandler.GetReport)
			gymGroup.GET("/reports/sales.csv", reportHandler.ExportSales)

			gymGroup.GET("/settings", gymHandler.GetSettings)
			gymGroup.PUT("/settings", gymHandler.SaveSettings)
		}

		// --- Member: own membership ---
		protected.GET("/me", RoleMiddleware(domain.RoleMember), portalHandler.Overview)
	}
}
