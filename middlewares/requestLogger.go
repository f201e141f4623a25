package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/utils"
	"github.com/sirupsen/logrus"
)

// RequestLogger emits one structured line per request after it completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		entry := config.GetLogger().WithFields(logrus.Fields{
			"method":        c.Request.Method,
			"path":          c.FullPath(),
			"status":        c.Writer.Status(),
			"latencyMs":     time.Since(start).Milliseconds(),
			"correlationId": correlationId,
		})
		if operator, ok := utils.GetOperatorFromContext(c.Request.Context()); ok {
			entry = entry.WithField("operator", operator)
		}
		if c.Writer.Status() >= 500 {
			entry.Error("request failed")
			return
		}
		entry.Info("request completed")
	}
}
