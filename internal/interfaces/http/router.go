package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexus/internal/interfaces/http/middleware"
	"nexus/internal/interfaces/http/routes"
	"nexus/internal/shared/logger"
)

// NewRouter builds the gin engine with middleware and all routes
// registered.
func NewRouter(container *Container, log logger.Interface) *gin.Engine {
	if container.Config.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := registerValidations(); err != nil {
		log.Errorw("failed to register custom validations", "error", err)
	}

	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.Logger(log),
		middleware.CORS(container.Config.Server.AllowedOrigins),
		middleware.ErrorHandler(),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupMembershipRoutes(engine, &routes.MembershipRouteConfig{
		MembershipHandler: container.MembershipHandler,
		AuthMiddleware:    container.AuthMiddleware,
	})

	routes.SetupAdminRoutes(engine, &routes.AdminRouteConfig{
		AdminHandler:   container.AdminHandler,
		AuthMiddleware: container.AuthMiddleware,
	})

	return engine
}
