package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appctx "ledgerpos/internal/core/context"
)

// HeaderOperator names the person or terminal issuing the request.
const HeaderOperator = "X-Operator"

const maxOperatorLen = 100

// Operator puts the caller-supplied operator name into the request context.
// The name is informational: it only ends up in audit records.
func Operator() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.GetHeader(HeaderOperator))
		if len(name) > maxOperatorLen {
			name = name[:maxOperatorLen]
		}
		if name != "" {
			ctx := appctx.WithOperator(c.Request.Context(), &appctx.Operator{Name: name})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
