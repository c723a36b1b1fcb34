package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying the per-request id.
const RequestIDHeader = "X-Request-ID"

// ContextRequestIDKey stores the request id inside the Gin context.
const ContextRequestIDKey = "request_id"

// RequestID tags every request with a UUID so log lines and client reports
// can be correlated. An inbound id from a trusted proxy is kept.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(ContextRequestIDKey, id)
		ctx.Writer.Header().Set(RequestIDHeader, id)
		ctx.Next()
	}
}
