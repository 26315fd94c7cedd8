package dto

import (
	"github.com/YouSangSon/admin-backoffice/internal/domain/entity"
)

const (
	// DefaultPage는 page 파라미터 기본값입니다
	DefaultPage = 1
	// DefaultLimit은 limit 파라미터 기본값입니다
	DefaultLimit = 10
)

// ListRequest는 목록 조회 요청입니다. 쿼리 스트링에서 그대로 매핑됩니다
type ListRequest struct {
	Search  string
	Filters map[string]string
	Page    int
	Limit   int
}

// Normalize는 페이지네이션 입력을 스펙 범위로 보정합니다 (page >= 1, limit > 0)
func (r *ListRequest) Normalize() {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
}

// ListResult는 목록 조회 결과입니다
type ListResult struct {
	Rows  []entity.Row
	Total int64
	Page  int
	Limit int
}

// TotalPages는 전체 페이지 수를 반환합니다 (ceil(total/limit))
func (r ListResult) TotalPages() int {
	if r.Limit < 1 {
		return 0
	}
	return int((r.Total + int64(r.Limit) - 1) / int64(r.Limit))
}

// Pagination은 JSON 응답의 페이지네이션 정보입니다
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Pagination은 결과를 응답용 페이지네이션으로 변환합니다
func (r ListResult) Pagination() Pagination {
	return Pagination{
		Page:       r.Page,
		Limit:      r.Limit,
		Total:      r.Total,
		TotalPages: r.TotalPages(),
	}
}

// BulkActionRequest는 bulk action 요청입니다.
// action은 "delete" 또는 "toggle_<flag>"이며, toggle일 때는 플래그 값이
// 플래그 이름 그대로의 키로 바디에 함께 들어옵니다 (예: {"action":"toggle_active","ids":[...],"is_active":false})
type BulkActionRequest struct {
	Action     string
	IDs        []string
	FlagValues map[string]bool
}

// BulkActionResult는 bulk action 결과입니다
type BulkActionResult struct {
	Action   string `json:"action"`
	Affected int64  `json:"affected"`
}
