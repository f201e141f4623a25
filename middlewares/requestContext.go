package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/utils"
)

const (
	HeaderCorrelationId = "X-Correlation-Id"
	HeaderOperator      = "X-Operator"
)

// RequestContext stamps every request with a correlation id (honoring one
// supplied by the client) and carries the operator name when the client sends
// it. Both travel in the request context and the id is echoed back in the
// response.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationId := c.GetHeader(HeaderCorrelationId)
		if correlationId == "" {
			correlationId = uuid.NewString()
		}

		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), correlationId)
		if operator := c.GetHeader(HeaderOperator); operator != "" {
			ctx = utils.SetOperatorInContext(ctx, operator)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Header(HeaderCorrelationId, correlationId)
		c.Next()
	}
}
