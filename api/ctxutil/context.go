package ctxutil

import (
	"context"

	"commerce/api/response"
	"commerce/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// WithRequestID request context carrying the request id, for handing to the application layer
func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}
