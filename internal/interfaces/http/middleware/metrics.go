package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/YouSangSon/admin-backoffice/internal/pkg/metrics"
)

// MetricsMiddleware는 Prometheus 메트릭을 수집합니다
func MetricsMiddleware() gin.HandlerFunc {
	m := metrics.GetMetrics()

	return func(c *gin.Context) {
		start := time.Now()

		// 요청 처리
		c.Next()

		// 경로 파라미터가 카디널리티를 터뜨리지 않게 라우트 패턴으로 기록
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}
