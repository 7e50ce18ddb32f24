package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/remnaops/vless-gateway/internal/api/http/dto"
	"github.com/remnaops/vless-gateway/internal/gateway"
)

// GatewayService is the workflow behind the two credential endpoints.
type GatewayService interface {
	IssueVlessLink(ctx context.Context, mac string) (string, error)
	IssueTailscaleCommand(ctx context.Context, mac string) (string, error)
}

type GatewayHandler struct {
	svc GatewayService
}

func NewGatewayHandler(svc GatewayService) *GatewayHandler {
	return &GatewayHandler{svc: svc}
}

func (h *GatewayHandler) Vless(ctx *gin.Context) {
	var req dto.ProvisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeError(ctx, gateway.NewError(gateway.CodeInvalidMac, "invalid request body"))
		return
	}

	link, err := h.svc.IssueVlessLink(ctx.Request.Context(), req.MacAddress)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.String(http.StatusOK, link)
}

func (h *GatewayHandler) Tailscale(ctx *gin.Context) {
	var req dto.ProvisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeError(ctx, gateway.NewError(gateway.CodeInvalidMac, "invalid request body"))
		return
	}

	command, err := h.svc.IssueTailscaleCommand(ctx.Request.Context(), req.MacAddress)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.String(http.StatusOK, command)
}

// writeError serializes typed domain errors verbatim and genericizes
// everything else. The original cause only goes to the log.
func writeError(ctx *gin.Context, err error) {
	var gwErr *gateway.Error
	if !errors.As(err, &gwErr) {
		slog.Error("Unhandled error", "error", err, "path", ctx.Request.URL.Path)
		gwErr = gateway.NewError(gateway.CodeInternal, "internal server error")
	} else if gwErr.Status() >= http.StatusInternalServerError {
		slog.Error("Request failed", "error_code", gwErr.Code, "error", gwErr.Message, "cause", gwErr.Unwrap())
	} else {
		slog.Warn("Request rejected", "error_code", gwErr.Code, "error", gwErr.Message)
	}

	ctx.JSON(gwErr.Status(), dto.ErrorResponse{
		Error:     gwErr.Message,
		ErrorCode: string(gwErr.Code),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
