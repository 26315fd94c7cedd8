package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/YouSangSon/admin-backoffice/internal/application/dto"
	"github.com/YouSangSon/admin-backoffice/internal/domain/entity"
	"github.com/YouSangSon/admin-backoffice/internal/domain/repository"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/logger"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/metrics"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/tracing"
)

// ResourceUseCase는 레지스트리에 등록된 모든 리소스의 CRUD/목록/집계 유즈케이스입니다.
// 저장소 호출은 요청당 한 번의 시도이며 실패는 그대로 호출자에게 전파됩니다
type ResourceUseCase struct {
	registry *entity.Registry
	repo     repository.ResourceRepository
	cache    repository.CacheRepository
	audit    repository.AuditPublisher
	metrics  *metrics.Metrics
	cacheTTL time.Duration
	now      func() time.Time
}

// Option은 ResourceUseCase 생성 옵션입니다
type Option func(*ResourceUseCase)

// WithCache는 행 조회 캐시를 연결합니다
func WithCache(cache repository.CacheRepository, ttl time.Duration) Option {
	return func(uc *ResourceUseCase) {
		uc.cache = cache
		if ttl > 0 {
			uc.cacheTTL = ttl
		}
	}
}

// WithAuditPublisher는 감사 이벤트 발행자를 연결합니다
func WithAuditPublisher(audit repository.AuditPublisher) Option {
	return func(uc *ResourceUseCase) {
		uc.audit = audit
	}
}

// WithClock은 시간 소스를 교체합니다 (테스트용)
func WithClock(now func() time.Time) Option {
	return func(uc *ResourceUseCase) {
		uc.now = now
	}
}

// NewResourceUseCase는 새로운 ResourceUseCase를 생성합니다
func NewResourceUseCase(registry *entity.Registry, repo repository.ResourceRepository, opts ...Option) *ResourceUseCase {
	uc := &ResourceUseCase{
		registry: registry,
		repo:     repo,
		metrics:  metrics.GetMetrics(),
		cacheTTL: 5 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Resource는 리소스 디스크립터를 조회합니다
func (uc *ResourceUseCase) Resource(name string) (*entity.Resource, error) {
	return uc.registry.Lookup(name)
}

// ResourceNames는 등록된 리소스 이름 목록을 반환합니다
func (uc *ResourceUseCase) ResourceNames() []string {
	return uc.registry.Names()
}

// List는 필터/검색/페이지네이션이 적용된 목록을 조회합니다
func (uc *ResourceUseCase) List(ctx context.Context, resourceName string, req dto.ListRequest) (*dto.ListResult, error) {
	ctx, span := tracing.StartSpan(ctx, "ResourceUseCase.List")
	defer span.End()

	res, err := uc.registry.Lookup(resourceName)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	tracing.SetAttributes(ctx,
		attribute.String("resource", resourceName),
		attribute.Int("page", req.Page),
		attribute.Int("limit", req.Limit),
	)

	query := entity.ListQuery{
		Conditions: resolveFilters(res, req.Filters),
		Search:     req.Search,
		Page:       req.Page,
		Limit:      req.Limit,
	}

	rows, total, err := uc.repo.FindAll(ctx, res, query)
	if err != nil {
		tracing.RecordError(ctx, err)
		logger.Error(ctx, "failed to list rows",
			logger.ResourceName(resourceName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to list %s: %w", resourceName, err)
	}

	return &dto.ListResult{
		Rows:  rows,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

// Get은 id로 행을 조회합니다. 캐시를 먼저 확인합니다
func (uc *ResourceUseCase) Get(ctx context.Context, resourceName, rawID string) (entity.Row, error) {
	ctx, span := tracing.StartSpan(ctx, "ResourceUseCase.Get")
	defer span.End()

	res, err := uc.registry.Lookup(resourceName)
	if err != nil {
		return nil, err
	}

	id, err := res.ParseID(rawID)
	if err != nil {
		return nil, entity.ErrRowNotFound
	}

	cacheKey := rowCacheKey(resourceName, rawID)
	if uc.cache != nil {
		var cached entity.Row
		if err := uc.cache.Get(ctx, cacheKey, &cached); err == nil {
			uc.metrics.RecordCacheHit(resourceName)
			logger.Debug(ctx, "cache hit", logger.CacheKey(cacheKey))
			return res.NormalizeRow(cached), nil
		}
		uc.metrics.RecordCacheMiss(resourceName)
	}

	row, err := uc.repo.FindByID(ctx, res, id)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, cacheKey, row, uc.cacheTTL); err != nil {
			logger.Warn(ctx, "failed to cache row", logger.CacheKey(cacheKey), zap.Error(err))
		}
	}
	return row, nil
}

// Create는 행을 생성합니다. created_at을 현재 시간으로 찍고 디스크립터 기본값을 채웁니다
func (uc *ResourceUseCase) Create(ctx context.Context, resourceName string, data map[string]interface{}, actor string) (entity.Row, error) {
	ctx, span := tracing.StartSpan(ctx, "ResourceUseCase.Create")
	defer span.End()

	res, err := uc.registry.Lookup(resourceName)
	if err != nil {
		return nil, err
	}

	row, err := res.ValidateNew(data, uc.now())
	if err != nil {
		return nil, err
	}

	inserted, err := uc.repo.Insert(ctx, res, row)
	if err != nil {
		tracing.RecordError(ctx, err)
		logger.Error(ctx, "failed to create row",
			logger.ResourceName(resourceName),
			zap.Error(err),
		)
		return nil, err
	}

	uc.publishAudit(ctx, "create", resourceName, actor, []string{inserted.ID()}, nil)

	logger.Info(ctx, "row created",
		logger.ResourceName(resourceName),
		logger.RowID(inserted.ID()),
		logger.Actor(actor),
	)
	return inserted, nil
}

// Update는 부분 패치를 적용합니다. 대상이 없으면 entity.ErrRowNotFound입니다
func (uc *ResourceUseCase) Update(ctx context.Context, resourceName, rawID string, patch map[string]interface{}, actor string) (entity.Row, error) {
	ctx, span := tracing.StartSpan(ctx, "ResourceUseCase.Update")
	defer span.End()

	res, err := uc.registry.Lookup(resourceName)
	if err != nil {
		return nil, err
	}

	id, err := res.ParseID(rawID)
	if err != nil {
		return nil, entity.ErrRowNotFound
	}

	validated, err := res.ValidatePatch(patch, uc.now())
	if err != nil {
		return nil, err
	}

	updated, err := uc.repo.Update(ctx, res, id, validated)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}

	uc.invalidate(ctx, resourceName, rawID)
	uc.publishAudit(ctx, "update", resourceName, actor, []string{rawID}, patch)

	logger.Info(ctx, "row updated",
		logger.ResourceName(resourceName),
		logger.RowID(rawID),
		logger.Actor(actor),
	)
	return updated, nil
}

// Delete는 행을 삭제합니다. 모든 리소스에서 일관되게 존재 확인 후 삭제하며
// 대상이 없으면 entity.ErrRowNotFound를 반환합니다 (500이 아니라 404로 번역됨)
func (uc *ResourceUseCase) Delete(ctx context.Context, resourceName, rawID string, actor string) error {
	ctx, span := tracing.StartSpan(ctx, "ResourceUseCase.Delete")
	defer span.End()

	res, err := uc.registry.Lookup(resourceName)
	if err != nil {
		return err
	}

	id, err := res.ParseID(rawID)
	if err != nil {
		return entity.ErrRowNotFound
	}

	// 존재 확인을 먼저 해서 저장소의 삭제 실패가 500으로 새지 않게 합니다
	if _, err := uc.repo.FindByID(ctx, res, id); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, res, id); err != nil {
		tracing.RecordError(ctx, err)
		return err
	}

	uc.invalidate(ctx, resourceName, rawID)
	uc.publishAudit(ctx, "delete", resourceName, actor, []string{rawID}, nil)

	logger.Info(ctx, "row deleted",
		logger.ResourceName(resourceName),
		logger.RowID(rawID),
		logger.Actor(actor),
	)
	return nil
}

// BulkAction은 id 집합에 대해 delete 또는 toggle_<flag>를 단일 저장소 호출로 적용합니다
func (uc *ResourceUseCase) BulkAction(ctx context.Context, resourceName string, req dto.BulkActionRequest, actor string) (*dto.BulkActionResult, error) {
	ctx, span := tracing.StartSpan(ctx, "ResourceUseCase.BulkAction")
	defer span.End()

	res, err := uc.registry.Lookup(resourceName)
	if err != nil {
		return nil, err
	}

	ids := make([]interface{}, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := res.ParseID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	var affected int64
	switch {
	case req.Action == "delete":
		affected, err = uc.repo.DeleteMany(ctx, res, ids)

	default:
		flag, ok := res.ToggleFlag(req.Action)
		if !ok {
			return nil, fmt.Errorf("%w: %q", entity.ErrInvalidBulkAction, req.Action)
		}
		value, present := req.FlagValues[flag]
		if !present {
			return nil, fmt.Errorf("%w: %q", entity.ErrMissingToggleValue, flag)
		}
		affected, err = uc.repo.ToggleMany(ctx, res, flag, value, ids, uc.now())
	}

	if err != nil {
		tracing.RecordError(ctx, err)
		logger.Error(ctx, "bulk action failed",
			logger.ResourceName(resourceName),
			logger.Operation(req.Action),
			zap.Error(err),
		)
		return nil, err
	}

	for _, raw := range req.IDs {
		uc.invalidate(ctx, resourceName, raw)
	}
	uc.publishAudit(ctx, req.Action, resourceName, actor, req.IDs, nil)

	logger.Info(ctx, "bulk action applied",
		logger.ResourceName(resourceName),
		logger.Operation(req.Action),
		logger.Count(len(req.IDs)),
		zap.Int64("affected", affected),
	)
	return &dto.BulkActionResult{Action: req.Action, Affected: affected}, nil
}

// Stats는 리소스 단위 집계를 조회합니다
func (uc *ResourceUseCase) Stats(ctx context.Context, resourceName string) (entity.ResourceStats, error) {
	ctx, span := tracing.StartSpan(ctx, "ResourceUseCase.Stats")
	defer span.End()

	res, err := uc.registry.Lookup(resourceName)
	if err != nil {
		return entity.ResourceStats{}, err
	}
	return uc.repo.Stats(ctx, res)
}

// invalidate는 행 캐시를 무효화합니다
func (uc *ResourceUseCase) invalidate(ctx context.Context, resourceName, rawID string) {
	if uc.cache == nil {
		return
	}
	key := rowCacheKey(resourceName, rawID)
	if err := uc.cache.Delete(ctx, key); err != nil {
		logger.Warn(ctx, "failed to invalidate cache", logger.CacheKey(key), zap.Error(err))
	}
}

// publishAudit은 감사 이벤트를 발행합니다. 발행 실패는 요청을 실패시키지 않습니다
func (uc *ResourceUseCase) publishAudit(ctx context.Context, action, resourceName, actor string, ids []string, data map[string]interface{}) {
	if uc.audit == nil {
		return
	}
	event := repository.AuditEvent{
		EventID:   uuid.New().String(),
		Action:    action,
		Resource:  resourceName,
		RowIDs:    ids,
		Actor:     actor,
		Timestamp: uc.now().UTC(),
		Data:      data,
	}
	if err := uc.audit.Publish(ctx, event); err != nil {
		logger.Warn(ctx, "failed to publish audit event",
			logger.ResourceName(resourceName),
			logger.Operation(action),
			zap.Error(err),
		)
	}
}

// resolveFilters는 요청 필터를 디스크립터로 해석합니다.
// 선언되지 않았거나 Filterable이 아닌 키는 무시됩니다
func resolveFilters(res *entity.Resource, filters map[string]string) []entity.Condition {
	if len(filters) == 0 {
		return nil
	}
	conditions := make([]entity.Condition, 0, len(filters))
	// 디스크립터 선언 순서로 순회해 쿼리 텍스트를 결정적으로 유지합니다
	for _, f := range res.Fields {
		raw, ok := filters[f.Name]
		if !ok || raw == "" || !f.Filterable {
			continue
		}

		op := entity.OpEqual
		var value interface{} = raw
		switch {
		case f.Substring:
			op = entity.OpContains
		case f.Kind == entity.KindInt:
			var n int64
			if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
				continue
			}
			value = n
		case f.Kind == entity.KindBool:
			value = raw == "true"
		}

		conditions = append(conditions, entity.Condition{Column: f.Name, Op: op, Value: value})
	}
	return conditions
}

func rowCacheKey(resourceName, id string) string {
	return fmt.Sprintf("row:%s:%s", resourceName, id)
}
