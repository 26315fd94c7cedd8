package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/YouSangSon/admin-backoffice/internal/pkg/logger"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/tracing"
)

// TracingMiddleware는 OpenTelemetry 분산 추적을 추가합니다
func TracingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Span 시작
		ctx, span := tracing.StartSpan(c.Request.Context(), c.Request.Method+" "+c.Request.URL.Path)
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.url", c.Request.URL.String()),
			attribute.String("http.target", c.Request.URL.Path),
			attribute.String("http.host", c.Request.Host),
			attribute.String("http.user_agent", c.Request.UserAgent()),
			attribute.String("http.client_ip", c.ClientIP()),
		)

		// Request ID가 있으면 추가
		if requestID, exists := c.Get(RequestIDKey); exists {
			span.SetAttributes(attribute.String("request.id", requestID.(string)))
		}

		// Context에 trace 정보 추가
		ctx = logger.WithFields(ctx,
			zap.String("trace_id", tracing.GetTraceID(ctx)),
		)
		c.Request = c.Request.WithContext(ctx)

		// 요청 처리
		c.Next()

		statusCode := c.Writer.Status()
		span.SetAttributes(
			attribute.Int("http.status_code", statusCode),
			attribute.Int("http.response_size", c.Writer.Size()),
		)

		// 에러가 있으면 span에 기록
		if len(c.Errors) > 0 {
			span.RecordError(c.Errors.Last())
			span.SetStatus(codes.Error, c.Errors.String())
		} else if statusCode >= 400 {
			span.SetStatus(codes.Error, "request failed")
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}
}
