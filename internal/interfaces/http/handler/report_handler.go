package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/YouSangSon/admin-backoffice/internal/interfaces/http/render"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/logger"
	"github.com/YouSangSon/admin-backoffice/internal/reports"
)

// ReportHandler는 전체 리소스 요약 리포트 핸들러입니다
type ReportHandler struct {
	service ResourceService
}

// NewReportHandler는 새로운 ReportHandler를 생성합니다
func NewReportHandler(service ResourceService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Summary godoc
// @Summary      Platform summary report
// @Description  Per-resource row counts and recent activity as a PDF document
// @Tags         reports
// @Produce      application/pdf
// @Success      200
// @Failure      500
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	entries := make([]reports.SummaryEntry, 0)
	for _, name := range h.service.ResourceNames() {
		stats, err := h.service.Stats(ctx, name)
		if err != nil {
			logger.Error(ctx, "failed to collect stats for report",
				logger.ResourceName(name),
				zap.Error(err),
			)
			render.Error(c, http.StatusInternalServerError, err)
			return
		}
		entries = append(entries, reports.SummaryEntry{
			Resource: name,
			Stats:    stats,
		})
	}

	pdf, err := reports.SummaryPDF(entries)
	if err != nil {
		render.Error(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=summary.pdf")
	c.Header("Content-Type", "application/pdf")
	if err := pdf.Output(c.Writer); err != nil {
		logger.Error(ctx, "failed to write report", zap.Error(err))
	}
}
