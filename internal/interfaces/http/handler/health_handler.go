package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger는 헬스체크 대상 의존성입니다
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler는 헬스체크 핸들러입니다
type HealthHandler struct {
	db      Pinger
	version string
}

// NewHealthHandler는 새로운 HealthHandler를 생성합니다
func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// HealthResponse는 헬스체크 응답입니다
type HealthResponse struct {
	Status    string                 `json:"status"` // "healthy", "unhealthy"
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Checks    map[string]HealthCheck `json:"checks,omitempty"`
}

// HealthCheck는 개별 의존성 체크 결과입니다
type HealthCheck struct {
	Status   string  `json:"status"`
	Message  string  `json:"message,omitempty"`
	Duration float64 `json:"duration_ms"`
}

// Health godoc
// @Summary      Liveness check
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   h.version,
	})
}

// Ready godoc
// @Summary      Readiness check
// @Description  Verifies the database connection is usable
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   h.version,
		Checks:    make(map[string]HealthCheck),
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		response.Status = "unhealthy"
		response.Checks["postgres"] = HealthCheck{
			Status:   "unhealthy",
			Message:  err.Error(),
			Duration: float64(time.Since(start).Milliseconds()),
		}
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	response.Checks["postgres"] = HealthCheck{
		Status:   "healthy",
		Duration: float64(time.Since(start).Milliseconds()),
	}
	c.JSON(http.StatusOK, response)
}
