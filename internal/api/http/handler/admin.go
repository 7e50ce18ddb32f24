package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/remnaops/vless-gateway/internal/api/http/dto"
	"github.com/remnaops/vless-gateway/internal/auth"
	"github.com/remnaops/vless-gateway/internal/gateway"
)

// RosterRefresher forces a roster re-fetch on demand.
type RosterRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

type AdminHandler struct {
	apiKey     string
	authConfig auth.Config
	roster     RosterRefresher
}

func NewAdminHandler(apiKey string, authConfig auth.Config, roster RosterRefresher) *AdminHandler {
	return &AdminHandler{
		apiKey:     apiKey,
		authConfig: authConfig,
		roster:     roster,
	}
}

// IssueToken exchanges the admin API key for a short-lived JWT.
func (h *AdminHandler) IssueToken(ctx *gin.Context) {
	var req dto.TokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.apiKey == "" {
		slog.Warn("Admin API key not configured, rejecting request", "client_ip", ctx.ClientIP())
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Admin API is not configured"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.apiKey)) != 1 {
		slog.Warn("Invalid admin API key attempt", "client_ip", ctx.ClientIP())
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	token, err := auth.GenerateToken(h.authConfig, "admin")
	if err != nil {
		slog.Error("Failed to generate admin token", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	ctx.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// RefreshRoster re-fetches the roster snapshot.
func (h *AdminHandler) RefreshRoster(ctx *gin.Context) {
	count, err := h.roster.Refresh(ctx.Request.Context())
	if err != nil {
		writeError(ctx, gateway.WrapError(gateway.CodeSheetAccess, "failed to refresh the roster", err))
		return
	}

	slog.Info("Roster refreshed by admin", "entries", count, "client_ip", ctx.ClientIP())
	ctx.JSON(http.StatusOK, dto.RosterRefreshResponse{Entries: count})
}
