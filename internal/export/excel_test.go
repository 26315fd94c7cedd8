package export_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YouSangSon/admin-backoffice/internal/domain/entity"
	"github.com/YouSangSon/admin-backoffice/internal/export"
)

func TestWorkbook_HeadersAndRows(t *testing.T) {
	// Arrange
	res := &entity.Resource{
		Name:           "testimonials",
		Table:          "testimonials",
		Fields:         []entity.Field{{Name: "author", Kind: entity.KindString}},
		DisplayColumns: []string{"author", "rating", "created_at"},
	}
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []entity.Row{
		{"id": "a", "author": "Kim", "rating": int64(5), "created_at": created},
		{"id": "b", "author": "Lee", "rating": nil, "created_at": created},
	}

	// Act
	f, err := export.Workbook(res, rows)
	require.NoError(t, err)
	defer f.Close()

	// Assert: id와 created_at이 항상 앞에 오고 표시 컬럼이 뒤따릅니다
	header, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "id", header)

	author, err := f.GetCellValue("Sheet1", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Kim", author)

	blank, err := f.GetCellValue("Sheet1", "D3")
	require.NoError(t, err)
	assert.Equal(t, "", blank)
}
