package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/YouSangSon/admin-backoffice/internal/domain/entity"
)

const sheetName = "Sheet1"

// Workbook은 리소스의 표시 컬럼 순서대로 행을 엑셀 워크북으로 만듭니다.
// 첫 행은 헤더이며 id와 created_at이 항상 앞에 붙습니다
func Workbook(res *entity.Resource, rows []entity.Row) (*excelize.File, error) {
	f := excelize.NewFile()

	headers := exportColumns(res)
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header: %w", err)
		}
	}

	for rowIdx, row := range rows {
		for colIdx, col := range headers {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(row[col])); err != nil {
				return nil, fmt.Errorf("failed to set cell: %w", err)
			}
		}
	}

	return f, nil
}

// exportColumns는 내보내기 컬럼 순서를 결정합니다
func exportColumns(res *entity.Resource) []string {
	cols := []string{"id", "created_at"}
	for _, display := range res.DisplayColumns {
		if display == "id" || display == "created_at" {
			continue
		}
		cols = append(cols, display)
	}
	return cols
}

// cellValue는 셀에 넣을 수 있는 값으로 변환합니다
func cellValue(v interface{}) interface{} {
	switch value := v.(type) {
	case nil:
		return ""
	case time.Time:
		return value.Format(time.RFC3339)
	default:
		return value
	}
}
