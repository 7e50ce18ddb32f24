package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/remnaops/vless-gateway/internal/api/http/handler"
	"github.com/remnaops/vless-gateway/internal/api/http/middleware"
	"github.com/remnaops/vless-gateway/internal/auth"
	"github.com/remnaops/vless-gateway/internal/roster"
)

const adminTokenTTL = 1 * time.Hour

type Services struct {
	Gateway handler.GatewayService
	Roster  *roster.Roster
	Config  Config
}

func SetupRoute(engine *gin.Engine, srvs *Services) {
	engine.Use(middleware.RequestLogger())

	healthHandler := handler.NewHealthHandler()
	engine.GET("/health", healthHandler.Check)

	gatewayHandler := handler.NewGatewayHandler(srvs.Gateway)
	engine.POST("/vless", gatewayHandler.Vless)
	engine.POST("/tailscale", gatewayHandler.Tailscale)

	authConfig := auth.Config{Secret: srvs.Config.AuthSecret, TokenTTL: adminTokenTTL}
	adminHandler := handler.NewAdminHandler(srvs.Config.AdminAPIKey, authConfig, srvs.Roster)

	api := engine.Group("/api/v1")
	api.POST("/auth/token", adminHandler.IssueToken)

	admin := api.Group("", middleware.JWTAuth(srvs.Config.AuthSecret))
	admin.POST("/roster/refresh", adminHandler.RefreshRoster)
}
