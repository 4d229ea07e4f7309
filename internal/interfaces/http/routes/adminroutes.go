package routes

import (
	"github.com/gin-gonic/gin"

	adminhandlers "nexus/internal/interfaces/http/handlers/admin/membership"
	"nexus/internal/interfaces/http/middleware"
	"nexus/internal/shared/authorization"
)

type AdminRouteConfig struct {
	AdminHandler   *adminhandlers.AdminHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupAdminRoutes(engine *gin.Engine, config *AdminRouteConfig) {
	admin := engine.Group("/admin")
	admin.Use(config.AuthMiddleware.RequireAuth(), authorization.RequireAdmin())
	{
		memberships := admin.Group("/memberships")
		{
			memberships.GET("", config.AdminHandler.ListMemberships)
			memberships.POST("/manual", config.AdminHandler.CreateManualSubscription)

			memberships.POST("/:id/approve", config.AdminHandler.ApproveMembership)
			memberships.POST("/:id/reject", config.AdminHandler.RejectMembership)
			memberships.POST("/:id/reject-upgrade", config.AdminHandler.RejectUpgrade)
			memberships.POST("/:id/welcome-kit", config.AdminHandler.MarkWelcomeKitDelivered)
			memberships.PATCH("/:id", config.AdminHandler.UpdateMembership)
		}

		reconsumptions := admin.Group("/reconsumptions")
		{
			reconsumptions.POST("/:id/approve", config.AdminHandler.ApproveReconsumption)
			reconsumptions.POST("/:id/reject", config.AdminHandler.RejectReconsumption)
		}

		jobs := admin.Group("/jobs")
		{
			jobs.POST("/reconsumption-cut", config.AdminHandler.RunCut)
			jobs.POST("/weekly-settlement", config.AdminHandler.RunWeeklySettlement)
		}
	}
}
