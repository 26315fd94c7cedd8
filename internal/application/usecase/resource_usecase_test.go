package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/YouSangSon/admin-backoffice/internal/application/dto"
	"github.com/YouSangSon/admin-backoffice/internal/application/usecase"
	"github.com/YouSangSon/admin-backoffice/internal/domain/entity"
	"github.com/YouSangSon/admin-backoffice/internal/domain/repository"
)

// MockResourceRepository는 ResourceRepository의 mock입니다
type MockResourceRepository struct {
	mock.Mock
}

func (m *MockResourceRepository) Insert(ctx context.Context, res *entity.Resource, row entity.Row) (entity.Row, error) {
	args := m.Called(ctx, res, row)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.Row), args.Error(1)
}

func (m *MockResourceRepository) FindByID(ctx context.Context, res *entity.Resource, id interface{}) (entity.Row, error) {
	args := m.Called(ctx, res, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.Row), args.Error(1)
}

func (m *MockResourceRepository) FindAll(ctx context.Context, res *entity.Resource, query entity.ListQuery) ([]entity.Row, int64, error) {
	args := m.Called(ctx, res, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Row), args.Get(1).(int64), args.Error(2)
}

func (m *MockResourceRepository) Update(ctx context.Context, res *entity.Resource, id interface{}, patch entity.Row) (entity.Row, error) {
	args := m.Called(ctx, res, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.Row), args.Error(1)
}

func (m *MockResourceRepository) Delete(ctx context.Context, res *entity.Resource, id interface{}) error {
	args := m.Called(ctx, res, id)
	return args.Error(0)
}

func (m *MockResourceRepository) DeleteMany(ctx context.Context, res *entity.Resource, ids []interface{}) (int64, error) {
	args := m.Called(ctx, res, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResourceRepository) ToggleMany(ctx context.Context, res *entity.Resource, flag string, value bool, ids []interface{}, now time.Time) (int64, error) {
	args := m.Called(ctx, res, flag, value, ids, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResourceRepository) Stats(ctx context.Context, res *entity.Resource) (entity.ResourceStats, error) {
	args := m.Called(ctx, res)
	return args.Get(0).(entity.ResourceStats), args.Error(1)
}

// MockCacheRepository는 CacheRepository의 mock입니다
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAuditPublisher는 AuditPublisher의 mock입니다
type MockAuditPublisher struct {
	mock.Mock
}

func (m *MockAuditPublisher) Publish(ctx context.Context, event repository.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newUseCase(repo *MockResourceRepository, opts ...usecase.Option) *usecase.ResourceUseCase {
	opts = append(opts, usecase.WithClock(func() time.Time { return fixedNow }))
	return usecase.NewResourceUseCase(entity.DefaultRegistry(), repo, opts...)
}

func TestList_TranslatesDeclaredFiltersOnly(t *testing.T) {
	// Arrange
	mockRepo := new(MockResourceRepository)
	uc := newUseCase(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindAll", mock.Anything, mock.Anything, mock.MatchedBy(func(q entity.ListQuery) bool {
		// 선언된 필터만 조건으로 번역되고 나머지는 무시됩니다
		return len(q.Conditions) == 1 &&
			q.Conditions[0].Column == "funding_stage" &&
			q.Conditions[0].Op == entity.OpEqual &&
			q.Conditions[0].Value == "seed" &&
			q.Page == 1 && q.Limit == 10
	})).Return([]entity.Row{{"id": "a"}}, int64(23), nil)

	// Act
	result, err := uc.List(ctx, "funding", dto.ListRequest{
		Filters: map[string]string{
			"funding_stage": "seed",
			"bogus":         "ignored",
		},
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(23), result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.Limit)
	assert.Equal(t, 3, result.TotalPages())
	mockRepo.AssertExpectations(t)
}

func TestList_SubstringFilterUsesContains(t *testing.T) {
	mockRepo := new(MockResourceRepository)
	uc := newUseCase(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindAll", mock.Anything, mock.Anything, mock.MatchedBy(func(q entity.ListQuery) bool {
		return len(q.Conditions) == 1 &&
			q.Conditions[0].Column == "investor" &&
			q.Conditions[0].Op == entity.OpContains
	})).Return([]entity.Row{}, int64(0), nil)

	_, err := uc.List(ctx, "funding", dto.ListRequest{
		Filters: map[string]string{"investor": "ventures"},
	})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestList_ClampsPageAndLimit(t *testing.T) {
	mockRepo := new(MockResourceRepository)
	uc := newUseCase(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindAll", mock.Anything, mock.Anything, mock.MatchedBy(func(q entity.ListQuery) bool {
		return q.Page == 1 && q.Limit == 10
	})).Return([]entity.Row{}, int64(0), nil)

	result, err := uc.List(ctx, "projects", dto.ListRequest{Page: -3, Limit: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.Limit)
}

func TestList_UnknownResource(t *testing.T) {
	uc := newUseCase(new(MockResourceRepository))

	_, err := uc.List(context.Background(), "nope", dto.ListRequest{})

	assert.ErrorIs(t, err, entity.ErrUnknownResource)
}

func TestList_RepositoryErrorIsTerminal(t *testing.T) {
	mockRepo := new(MockResourceRepository)
	uc := newUseCase(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, int64(0), errors.New("connection refused")).Once()

	_, err := uc.List(ctx, "projects", dto.ListRequest{})

	assert.Error(t, err)
	// 단 한 번만 시도해야 합니다
	mockRepo.AssertNumberOfCalls(t, "FindAll", 1)
}

func TestGet_CacheHitSkipsRepository(t *testing.T) {
	// Arrange
	mockRepo := new(MockResourceRepository)
	mockCache := new(MockCacheRepository)
	uc := newUseCase(mockRepo, usecase.WithCache(mockCache, time.Minute))
	ctx := context.Background()
	id := "6f1d2d15-9a7d-4af0-8cbb-1f0a25a2a5bd"

	mockCache.On("Get", mock.Anything, "row:projects:"+id, mock.Anything).Return(nil)

	// Act
	_, err := uc.Get(ctx, "projects", id)

	// Assert
	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "FindByID")
}

func TestGet_CacheMissFallsThroughAndCaches(t *testing.T) {
	mockRepo := new(MockResourceRepository)
	mockCache := new(MockCacheRepository)
	uc := newUseCase(mockRepo, usecase.WithCache(mockCache, time.Minute))
	ctx := context.Background()
	id := "6f1d2d15-9a7d-4af0-8cbb-1f0a25a2a5bd"
	row := entity.Row{"id": id, "name": "Apollo"}

	mockCache.On("Get", mock.Anything, "row:projects:"+id, mock.Anything).Return(errors.New("cache miss"))
	mockRepo.On("FindByID", mock.Anything, mock.Anything, id).Return(row, nil)
	mockCache.On("Set", mock.Anything, "row:projects:"+id, row, time.Minute).Return(nil)

	got, err := uc.Get(ctx, "projects", id)

	assert.NoError(t, err)
	assert.Equal(t, row, got)
	mockCache.AssertExpectations(t)
}

func TestGet_CachedRowRestoresDescriptorTypes(t *testing.T) {
	// Arrange
	mockRepo := new(MockResourceRepository)
	mockCache := new(MockCacheRepository)
	uc := newUseCase(mockRepo, usecase.WithCache(mockCache, time.Minute))
	ctx := context.Background()

	// 캐시에 저장된 행은 JSON 왕복을 거쳐 정수는 float64, 시간은 문자열로 돌아옵니다
	mockCache.On("Get", mock.Anything, "row:billing:42", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*entity.Row)
			*dest = entity.Row{
				"id":           float64(42),
				"amount_cents": float64(1500),
				"created_at":   "2026-03-01T12:00:00Z",
			}
		}).Return(nil)

	// Act
	row, err := uc.Get(ctx, "billing", "42")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "42", row.ID())
	assert.Equal(t, int64(1500), row["amount_cents"])
	assert.Equal(t, fixedNow, row["created_at"])
	mockRepo.AssertNotCalled(t, "FindByID")
}

func TestGet_InvalidIDBecomesNotFound(t *testing.T) {
	uc := newUseCase(new(MockResourceRepository))

	_, err := uc.Get(context.Background(), "projects", "not-a-uuid")

	assert.ErrorIs(t, err, entity.ErrRowNotFound)
}

func TestCreate_ValidatesAndPublishesAudit(t *testing.T) {
	// Arrange
	mockRepo := new(MockResourceRepository)
	mockAudit := new(MockAuditPublisher)
	uc := newUseCase(mockRepo, usecase.WithAuditPublisher(mockAudit))
	ctx := context.Background()

	inserted := entity.Row{"id": "new-id", "name": "Apollo"}
	mockRepo.On("Insert", mock.Anything, mock.Anything, mock.MatchedBy(func(row entity.Row) bool {
		return row["name"] == "Apollo" &&
			row["status"] == "draft" &&
			row["created_at"] == fixedNow
	})).Return(inserted, nil)
	mockAudit.On("Publish", mock.Anything, mock.MatchedBy(func(event repository.AuditEvent) bool {
		return event.Action == "create" && event.Resource == "projects" &&
			len(event.RowIDs) == 1 && event.RowIDs[0] == "new-id" &&
			event.Actor == "admin@corp"
	})).Return(nil)

	// Act
	row, err := uc.Create(ctx, "projects", map[string]interface{}{"name": "Apollo"}, "admin@corp")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "new-id", row.ID())
	mockAudit.AssertExpectations(t)
}

func TestCreate_UnknownFieldRejectedBeforeRepository(t *testing.T) {
	mockRepo := new(MockResourceRepository)
	uc := newUseCase(mockRepo)

	_, err := uc.Create(context.Background(), "projects", map[string]interface{}{
		"name":  "Apollo",
		"bogus": true,
	}, "admin@corp")

	assert.ErrorIs(t, err, entity.ErrUnknownField)
	mockRepo.AssertNotCalled(t, "Insert")
}

func TestCreate_AuditFailureDoesNotFailRequest(t *testing.T) {
	mockRepo := new(MockResourceRepository)
	mockAudit := new(MockAuditPublisher)
	uc := newUseCase(mockRepo, usecase.WithAuditPublisher(mockAudit))
	ctx := context.Background()

	mockRepo.On("Insert", mock.Anything, mock.Anything, mock.Anything).
		Return(entity.Row{"id": "new-id"}, nil)
	mockAudit.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	_, err := uc.Create(ctx, "projects", map[string]interface{}{"name": "Apollo"}, "admin@corp")

	assert.NoError(t, err)
}

func TestUpdate_InvalidatesCache(t *testing.T) {
	mockRepo := new(MockResourceRepository)
	mockCache := new(MockCacheRepository)
	uc := newUseCase(mockRepo, usecase.WithCache(mockCache, time.Minute))
	ctx := context.Background()
	id := "6f1d2d15-9a7d-4af0-8cbb-1f0a25a2a5bd"

	mockRepo.On("Update", mock.Anything, mock.Anything, id, mock.MatchedBy(func(patch entity.Row) bool {
		return patch["status"] == "active" && patch["updated_at"] == fixedNow
	})).Return(entity.Row{"id": id, "status": "active"}, nil)
	mockCache.On("Delete", mock.Anything, "row:projects:"+id).Return(nil)

	row, err := uc.Update(ctx, "projects", id, map[string]interface{}{"status": "active"}, "admin@corp")

	assert.NoError(t, err)
	assert.Equal(t, "active", row["status"])
	mockCache.AssertExpectations(t)
}

func TestUpdate_NotFound(t *testing.T) {
	mockRepo := new(MockResourceRepository)
	uc := newUseCase(mockRepo)
	ctx := context.Background()
	id := "6f1d2d15-9a7d-4af0-8cbb-1f0a25a2a5bd"

	mockRepo.On("Update", mock.Anything, mock.Anything, id, mock.Anything).
		Return(nil, entity.ErrRowNotFound)

	_, err := uc.Update(ctx, "projects", id, map[string]interface{}{"status": "active"}, "admin@corp")

	assert.ErrorIs(t, err, entity.ErrRowNotFound)
}

func TestDelete_ChecksExistenceFirst(t *testing.T) {
	mockRepo := new(MockResourceRepository)
	uc := newUseCase(mockRepo)
	ctx := context.Background()
	id := "6f1d2d15-9a7d-4af0-8cbb-1f0a25a2a5bd"

	mockRepo.On("FindByID", mock.Anything, mock.Anything, id).Return(nil, entity.ErrRowNotFound)

	err := uc.Delete(ctx, "projects", id, "admin@corp")

	assert.ErrorIs(t, err, entity.ErrRowNotFound)
	mockRepo.AssertNotCalled(t, "Delete")
}

func TestDelete_Success(t *testing.T) {
	mockRepo := new(MockResourceRepository)
	uc := newUseCase(mockRepo)
	ctx := context.Background()
	id := "6f1d2d15-9a7d-4af0-8cbb-1f0a25a2a5bd"

	mockRepo.On("FindByID", mock.Anything, mock.Anything, id).Return(entity.Row{"id": id}, nil)
	mockRepo.On("Delete", mock.Anything, mock.Anything, id).Return(nil)

	err := uc.Delete(ctx, "projects", id, "admin@corp")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestBulkAction_DeleteUsesSingleCall(t *testing.T) {
	mockRepo := new(MockResourceRepository)
	uc := newUseCase(mockRepo)
	ctx := context.Background()

	mockRepo.On("DeleteMany", mock.Anything, mock.Anything, mock.MatchedBy(func(ids []interface{}) bool {
		return len(ids) == 2
	})).Return(int64(2), nil).Once()

	result, err := uc.BulkAction(ctx, "invoices", dto.BulkActionRequest{
		Action: "delete",
		IDs:    []string{"1", "2"},
	}, "admin@corp")

	assert.NoError(t, err)
	assert.Equal(t, int64(2), result.Affected)
	mockRepo.AssertNumberOfCalls(t, "DeleteMany", 1)
}

func TestBulkAction_ToggleReadsFlagValueByName(t *testing.T) {
	mockRepo := new(MockResourceRepository)
	uc := newUseCase(mockRepo)
	ctx := context.Background()
	ids := []string{
		"6f1d2d15-9a7d-4af0-8cbb-1f0a25a2a5bd",
		"0b9a6c1e-3f43-4f09-9f51-0f6f8a2b7c11",
	}

	// updated_at 스탬프도 유즈케이스 시계를 따라야 합니다
	mockRepo.On("ToggleMany", mock.Anything, mock.Anything, "is_active", false, mock.Anything, fixedNow).
		Return(int64(2), nil)

	result, err := uc.BulkAction(ctx, "accounts", dto.BulkActionRequest{
		Action:     "toggle_active",
		IDs:        ids,
		FlagValues: map[string]bool{"is_active": false},
	}, "admin@corp")

	assert.NoError(t, err)
	assert.Equal(t, int64(2), result.Affected)
	mockRepo.AssertExpectations(t)
}

func TestBulkAction_ToggleWithoutValue(t *testing.T) {
	uc := newUseCase(new(MockResourceRepository))

	_, err := uc.BulkAction(context.Background(), "accounts", dto.BulkActionRequest{
		Action: "toggle_active",
		IDs:    []string{"6f1d2d15-9a7d-4af0-8cbb-1f0a25a2a5bd"},
	}, "admin@corp")

	assert.ErrorIs(t, err, entity.ErrMissingToggleValue)
}

func TestBulkAction_UnknownAction(t *testing.T) {
	uc := newUseCase(new(MockResourceRepository))

	_, err := uc.BulkAction(context.Background(), "accounts", dto.BulkActionRequest{
		Action: "promote",
		IDs:    []string{"6f1d2d15-9a7d-4af0-8cbb-1f0a25a2a5bd"},
	}, "admin@corp")

	assert.ErrorIs(t, err, entity.ErrInvalidBulkAction)
}

func TestStats_Delegates(t *testing.T) {
	mockRepo := new(MockResourceRepository)
	uc := newUseCase(mockRepo)
	ctx := context.Background()

	mockRepo.On("Stats", mock.Anything, mock.Anything).Return(entity.ResourceStats{
		Total:       42,
		RecentCount: 7,
	}, nil)

	stats, err := uc.Stats(ctx, "accounts")

	assert.NoError(t, err)
	assert.Equal(t, int64(42), stats.Total)
	assert.Equal(t, int64(7), stats.RecentCount)
}
