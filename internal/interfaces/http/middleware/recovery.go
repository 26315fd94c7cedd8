package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/YouSangSon/admin-backoffice/internal/interfaces/http/render"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/logger"
)

// RecoveryMiddleware는 패닉을 복구하고 500 에러를 반환합니다
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// 스택 트레이스 캡처
				stack := string(debug.Stack())

				ctx := c.Request.Context()
				logger.Error(ctx, "panic recovered",
					logger.HTTPMethod(c.Request.Method),
					logger.HTTPPath(c.Request.URL.Path),
					logger.RemoteAddr(c.ClientIP()),
					zap.Any("panic", err),
					zap.String("stack", stack),
				)

				render.Error(c, http.StatusInternalServerError, fmt.Errorf("internal server error"))
				c.Abort()
			}
		}()

		c.Next()
	}
}
