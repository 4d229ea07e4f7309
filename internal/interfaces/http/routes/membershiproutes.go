package routes

import (
	"github.com/gin-gonic/gin"

	membershiphandlers "nexus/internal/interfaces/http/handlers/membership"
	"nexus/internal/interfaces/http/middleware"
)

type MembershipRouteConfig struct {
	MembershipHandler *membershiphandlers.MembershipHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

func SetupMembershipRoutes(engine *gin.Engine, config *MembershipRouteConfig) {
	memberships := engine.Group("/memberships")
	memberships.Use(config.AuthMiddleware.RequireAuth())
	{
		// Specific paths before parameterized ones to avoid route conflicts
		memberships.GET("/me", config.MembershipHandler.GetStatus)
		memberships.GET("/plans", config.MembershipHandler.ListPlans)
		memberships.GET("/plans/:id/pricing", config.MembershipHandler.GetPricing)

		memberships.POST("", config.MembershipHandler.Subscribe)

		memberships.POST("/reconsumptions", config.MembershipHandler.Reconsume)
		memberships.GET("/reconsumptions", config.MembershipHandler.ListReconsumptions)

		memberships.GET("/:id/history", config.MembershipHandler.ListHistory)
	}
}
