package repository

import (
	"context"
	"time"

	"github.com/YouSangSon/admin-backoffice/internal/domain/entity"
)

// ResourceRepository는 디스크립터 기반 범용 저장소 인터페이스입니다.
// 모든 리소스 테이블이 이 하나의 구현을 공유합니다
type ResourceRepository interface {
	// Insert는 행을 저장하고 저장소가 id를 채운 행을 반환합니다
	Insert(ctx context.Context, res *entity.Resource, row entity.Row) (entity.Row, error)

	// FindByID는 id로 행을 조회합니다. 없으면 entity.ErrRowNotFound를 반환합니다
	FindByID(ctx context.Context, res *entity.Resource, id interface{}) (entity.Row, error)

	// FindAll은 필터/검색/페이지네이션이 적용된 행 목록과
	// 윈도우와 무관한 전체 개수를 반환합니다
	FindAll(ctx context.Context, res *entity.Resource, query entity.ListQuery) ([]entity.Row, int64, error)

	// Update는 부분 패치를 적용하고 갱신된 행을 반환합니다.
	// 대상이 없으면 entity.ErrRowNotFound를 반환합니다
	Update(ctx context.Context, res *entity.Resource, id interface{}, patch entity.Row) (entity.Row, error)

	// Delete는 행을 삭제합니다. 대상이 없으면 entity.ErrRowNotFound를 반환합니다
	Delete(ctx context.Context, res *entity.Resource, id interface{}) error

	// DeleteMany는 id 집합을 한 번의 저장소 호출로 삭제합니다
	DeleteMany(ctx context.Context, res *entity.Resource, ids []interface{}) (int64, error)

	// ToggleMany는 bool 플래그를 id 집합 전체에 한 번의 호출로 설정합니다.
	// now는 HasUpdatedAt 리소스의 updated_at 스탬프로 쓰입니다
	ToggleMany(ctx context.Context, res *entity.Resource, flag string, value bool, ids []interface{}, now time.Time) (int64, error)

	// Stats는 리소스 단위 집계를 반환합니다
	Stats(ctx context.Context, res *entity.Resource) (entity.ResourceStats, error)
}

// CacheRepository는 캐시 저장소 인터페이스입니다
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// AuditEvent는 변경 작업의 감사 이벤트입니다
type AuditEvent struct {
	EventID   string                 `json:"event_id"`
	Action    string                 `json:"action"`
	Resource  string                 `json:"resource"`
	RowIDs    []string               `json:"row_ids"`
	Actor     string                 `json:"actor,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// AuditPublisher는 감사 이벤트 발행 인터페이스입니다.
// 발행 실패는 요청을 실패시키지 않습니다
type AuditPublisher interface {
	Publish(ctx context.Context, event AuditEvent) error
	Close() error
}
