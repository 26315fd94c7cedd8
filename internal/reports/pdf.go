package reports

import (
	"fmt"
	"sort"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/YouSangSon/admin-backoffice/internal/domain/entity"
)

// SummaryEntry는 리소스 하나의 요약 행입니다
type SummaryEntry struct {
	Resource string
	Stats    entity.ResourceStats
}

// SummaryPDF는 리소스별 건수와 최근 30일 활동을 담은 요약 PDF를 만듭니다
func SummaryPDF(entries []SummaryEntry) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Platform Summary", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Platform Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 7, "Generated: "+time.Now().UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(12)

	// 테이블 헤더
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(70, 8, "Resource", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Last 30 days", "1", 0, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, entry := range entries {
		pdf.CellFormat(70, 8, entry.Resource, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", entry.Stats.Total), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", entry.Stats.RecentCount), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	// 상태 분포가 있는 리소스는 별도 섹션으로
	for _, entry := range entries {
		if len(entry.Stats.StatusCounts) == 0 {
			continue
		}

		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, entry.Resource+" by status")
		pdf.Ln(8)

		statuses := make([]string, 0, len(entry.Stats.StatusCounts))
		for status := range entry.Stats.StatusCounts {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)

		pdf.SetFont("Helvetica", "", 11)
		for _, status := range statuses {
			pdf.CellFormat(70, 7, status, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, fmt.Sprintf("%d", entry.Stats.StatusCounts[status]), "1", 0, "R", false, 0, "")
			pdf.Ln(7)
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("failed to build summary pdf: %v", pdf.Error())
	}
	return pdf, nil
}
