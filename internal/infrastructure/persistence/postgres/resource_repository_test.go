package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YouSangSon/admin-backoffice/internal/domain/entity"
)

func fundingResource(t *testing.T) *entity.Resource {
	t.Helper()
	res, err := entity.DefaultRegistry().Lookup("funding")
	require.NoError(t, err)
	return res
}

func teamResource(t *testing.T) *entity.Resource {
	t.Helper()
	res, err := entity.DefaultRegistry().Lookup("team-members")
	require.NoError(t, err)
	return res
}

func newMockRepo(t *testing.T) (*resourceRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewResourceRepository(db).(*resourceRepository), mock
}

func TestFindAll_FilteredAndPaginated(t *testing.T) {
	// Arrange
	repo, mock := newMockRepo(t)
	res := fundingResource(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM funding_rounds WHERE funding_stage = $1",
	)).WithArgs("seed").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(23))

	listRows := sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "company", "funding_stage",
		"amount_cents", "investor", "status", "closed_at",
	})
	now := time.Now().UTC()
	for i := 0; i < 10; i++ {
		listRows.AddRow("id-"+string(rune('a'+i)), now, now, "Acme", "seed", int64(100), "vc", "open", nil)
	}
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, created_at, updated_at, company, funding_stage, amount_cents, investor, status, closed_at "+
			"FROM funding_rounds WHERE funding_stage = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
	)).WithArgs("seed", 10, 0).
		WillReturnRows(listRows)

	// Act
	rows, total, err := repo.FindAll(context.Background(), res, entity.ListQuery{
		Conditions: []entity.Condition{{Column: "funding_stage", Op: entity.OpEqual, Value: "seed"}},
		Page:       1,
		Limit:      10,
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(23), total)
	assert.Len(t, rows, 10)
	assert.Equal(t, "seed", rows[0]["funding_stage"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAll_SearchBuildsILikeOr(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := fundingResource(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM funding_rounds WHERE (company ILIKE $1 OR investor ILIKE $2)",
	)).WithArgs("%acme%", "%acme%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM funding_rounds WHERE (company ILIKE $1 OR investor ILIKE $2) ORDER BY created_at DESC LIMIT $3 OFFSET $4",
	)).WithArgs("%acme%", "%acme%", 10, 10).
		WillReturnRows(sqlmock.NewRows(res.Columns()))

	rows, total, err := repo.FindAll(context.Background(), res, entity.ListQuery{
		Search: "acme",
		Page:   2,
		Limit:  10,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_OrdersColumnsByDescriptor(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := teamResource(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	returned := sqlmock.NewRows(res.Columns()).
		AddRow("new-id", now, now, "Kim", "kim@corp.io", "viewer", true)
	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO team_members (created_at, updated_at, name, email, role, is_active) "+
			"VALUES ($1, $2, $3, $4, $5, $6) "+
			"RETURNING id, created_at, updated_at, name, email, role, is_active",
	)).WithArgs(now, now, "Kim", "kim@corp.io", "viewer", true).
		WillReturnRows(returned)

	row, err := repo.Insert(context.Background(), res, entity.Row{
		"created_at": now,
		"updated_at": now,
		"name":       "Kim",
		"email":      "kim@corp.io",
		"role":       "viewer",
		"is_active":  true,
	})

	assert.NoError(t, err)
	assert.Equal(t, "new-id", row.ID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := teamResource(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, created_at, updated_at, name, email, role, is_active FROM team_members WHERE id = $1",
	)).WithArgs("missing-id").
		WillReturnRows(sqlmock.NewRows(res.Columns()))

	_, err := repo.FindByID(context.Background(), res, "missing-id")

	assert.ErrorIs(t, err, entity.ErrRowNotFound)
}

func TestUpdate_ReturnsUpdatedRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := teamResource(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	returned := sqlmock.NewRows(res.Columns()).
		AddRow("id-1", now, now, "Kim", "kim@corp.io", "editor", true)
	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE team_members SET updated_at = $1, role = $2 WHERE id = $3 "+
			"RETURNING id, created_at, updated_at, name, email, role, is_active",
	)).WithArgs(now, "editor", "id-1").
		WillReturnRows(returned)

	row, err := repo.Update(context.Background(), res, "id-1", entity.Row{
		"updated_at": now,
		"role":       "editor",
	})

	assert.NoError(t, err)
	assert.Equal(t, "editor", row["role"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := teamResource(t)

	mock.ExpectQuery("UPDATE team_members SET").
		WillReturnRows(sqlmock.NewRows(res.Columns()))

	_, err := repo.Update(context.Background(), res, "missing", entity.Row{"role": "editor"})

	assert.ErrorIs(t, err, entity.ErrRowNotFound)
}

func TestDelete_NoRowsIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := teamResource(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM team_members WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), res, "missing")

	assert.ErrorIs(t, err, entity.ErrRowNotFound)
}

func TestDeleteMany_SingleStatement(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := teamResource(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM team_members WHERE id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.DeleteMany(context.Background(), res, []interface{}{"a", "b", "c"})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleMany_StampsUpdatedAtFromCallerClock(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := teamResource(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// updated_at은 자체 time.Now()가 아니라 전달받은 시각이어야 합니다
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE team_members SET is_active = $1, updated_at = $2 WHERE id = ANY($3)",
	)).WithArgs(false, now, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	affected, err := repo.ToggleMany(context.Background(), res, "is_active", false, []interface{}{"a", "b"}, now)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleMany_RejectsWrongIDType(t *testing.T) {
	repo, _ := newMockRepo(t)
	res := teamResource(t)

	_, err := repo.ToggleMany(context.Background(), res, "is_active", true, []interface{}{int64(1)}, time.Now())

	assert.ErrorIs(t, err, entity.ErrInvalidID)
}

func TestStats_IncludesStatusBreakdown(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := fundingResource(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*), COUNT(*) FILTER (WHERE created_at >= $1) FROM funding_rounds",
	)).WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count", "recent"}).AddRow(28, 5))

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT status, COUNT(*) FROM funding_rounds GROUP BY status",
	)).WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
		AddRow("open", 20).
		AddRow("closed", 8))

	stats, err := repo.Stats(context.Background(), res)

	assert.NoError(t, err)
	assert.Equal(t, int64(28), stats.Total)
	assert.Equal(t, int64(5), stats.RecentCount)
	assert.Equal(t, int64(20), stats.StatusCounts["open"])
	assert.Equal(t, int64(8), stats.StatusCounts["closed"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
