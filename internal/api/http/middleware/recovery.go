package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/remnaops/vless-gateway/internal/api/http/dto"
	"github.com/remnaops/vless-gateway/internal/gateway"
)

// Recovery converts panics into the generic error envelope. The panic
// value is logged, never sent to the client.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("Panic recovered", "panic", recovered, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:     "internal server error",
			ErrorCode: string(gateway.CodeInternal),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
}
