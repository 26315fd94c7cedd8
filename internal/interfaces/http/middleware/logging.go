package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/YouSangSon/admin-backoffice/internal/pkg/logger"
)

// LoggingMiddleware는 HTTP 요청/응답을 로깅합니다
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		ctx := c.Request.Context()
		logger.Debug(ctx, "incoming request",
			logger.HTTPMethod(c.Request.Method),
			logger.HTTPPath(path),
			logger.RemoteAddr(c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)

		// 요청 처리
		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		// 에러가 있으면 error 레벨로 로깅
		if len(c.Errors) > 0 {
			logger.Error(ctx, "request completed with errors",
				logger.HTTPMethod(c.Request.Method),
				logger.HTTPPath(path),
				logger.HTTPStatus(statusCode),
				logger.Duration(duration),
				zap.Int("response_size", c.Writer.Size()),
				zap.Strings("errors", c.Errors.Errors()),
			)
			return
		}

		logLevel := logger.Info
		if statusCode >= 500 {
			logLevel = logger.Error
		} else if statusCode >= 400 {
			logLevel = logger.Warn
		}

		logLevel(ctx, "request completed",
			logger.HTTPMethod(c.Request.Method),
			logger.HTTPPath(path),
			logger.HTTPStatus(statusCode),
			logger.Duration(duration),
			logger.DurationMs(duration),
			zap.Int("response_size", c.Writer.Size()),
		)
	}
}
