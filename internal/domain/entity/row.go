package entity

import (
	"fmt"
	"time"
)

// Row는 백오피스 리소스의 한 행입니다. 컬럼 집합은 리소스 디스크립터가 정의합니다
type Row map[string]interface{}

// ID는 행의 id를 문자열로 반환합니다 (serial, uuid 공통 표현)
func (r Row) ID() string {
	switch v := r["id"].(type) {
	case string:
		return v
	case int64:
		return fmt.Sprintf("%d", v)
	case int:
		return fmt.Sprintf("%d", v)
	case float64:
		// JSON 왕복(캐시)을 거친 serial id는 float64로 돌아옵니다
		return fmt.Sprintf("%d", int64(v))
	default:
		return ""
	}
}

// CreatedAt은 생성 시간을 반환합니다. 값이 없으면 zero time입니다
func (r Row) CreatedAt() time.Time {
	if t, ok := r["created_at"].(time.Time); ok {
		return t
	}
	return time.Time{}
}

// Clone은 행의 얕은 복사본을 반환합니다
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ListQuery는 목록 조회 조건입니다. 필터 해석은 디스크립터를 거친 뒤이므로
// 여기 담기는 조건은 전부 저장소가 그대로 실행할 수 있는 형태입니다
type ListQuery struct {
	Conditions []Condition
	Search     string
	Page       int
	Limit      int
}

// ConditionOp는 필터 조건의 비교 방식입니다
type ConditionOp int

const (
	// OpEqual은 완전 일치 조건입니다
	OpEqual ConditionOp = iota
	// OpContains는 대소문자 무시 부분 일치 조건입니다
	OpContains
)

// Condition은 단일 컬럼 필터 조건입니다. 컬럼 간에는 AND로 결합됩니다
type Condition struct {
	Column string
	Op     ConditionOp
	Value  interface{}
}

// Offset은 페이지네이션 오프셋을 계산합니다
func (q ListQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.Limit
}

// ResourceStats는 리소스 단위 집계입니다
type ResourceStats struct {
	Total        int64            `json:"total"`
	RecentCount  int64            `json:"recent_count"`
	StatusCounts map[string]int64 `json:"status_counts,omitempty"`
}
