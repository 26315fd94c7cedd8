package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/YouSangSon/admin-backoffice/internal/domain/entity"
	"github.com/YouSangSon/admin-backoffice/internal/domain/repository"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/logger"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/metrics"
)

// statsRecentWindow는 Stats의 "최근 생성" 집계 구간입니다
const statsRecentWindow = 30 * 24 * time.Hour

// resourceRepository는 디스크립터 기반 범용 PostgreSQL 저장소입니다.
// 테이블별 쿼리는 전부 디스크립터에서 생성되며 자유 형식 SQL은 없습니다
type resourceRepository struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// NewResourceRepository는 새로운 PostgreSQL 리소스 저장소를 생성합니다
func NewResourceRepository(db *sql.DB) repository.ResourceRepository {
	return &resourceRepository{
		db:      db,
		metrics: metrics.GetMetrics(),
	}
}

// Insert는 행을 저장하고 저장소가 id를 채운 행을 반환합니다
func (r *resourceRepository) Insert(ctx context.Context, res *entity.Resource, row entity.Row) (entity.Row, error) {
	cols := orderedColumns(res, row)
	if len(cols) == 0 {
		return nil, fmt.Errorf("insert into %s: no columns", res.Table)
	}

	placeholders := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, col := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = row[col]
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		res.Table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(res.Columns(), ", "),
	)

	inserted, err := r.queryRow(ctx, res, "insert", query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", res.Table, err)
	}
	return inserted, nil
}

// FindByID는 id로 행을 조회합니다
func (r *resourceRepository) FindByID(ctx context.Context, res *entity.Resource, id interface{}) (entity.Row, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = $1",
		strings.Join(res.Columns(), ", "),
		res.Table,
	)

	row, err := r.queryRow(ctx, res, "select", query, id)
	if err != nil {
		if errors.Is(err, entity.ErrRowNotFound) {
			return nil, entity.ErrRowNotFound
		}
		return nil, fmt.Errorf("failed to select from %s: %w", res.Table, err)
	}
	return row, nil
}

// FindAll은 필터/검색/페이지네이션이 적용된 목록과 전체 개수를 반환합니다.
// 개수는 같은 WHERE 절에 대한 정확한 COUNT(*)이며 윈도우와 무관합니다
func (r *resourceRepository) FindAll(ctx context.Context, res *entity.Resource, q entity.ListQuery) ([]entity.Row, int64, error) {
	where, args := buildWhere(res, q)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", res.Table, where)

	start := time.Now()
	var total int64
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	r.record(ctx, "count", res.Table, start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", res.Table, err)
	}

	limit := q.Limit
	listArgs := append(append([]interface{}{}, args...), limit, q.Offset())
	listQuery := fmt.Sprintf(
		"SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		strings.Join(res.Columns(), ", "),
		res.Table,
		where,
		res.Order(),
		len(args)+1,
		len(args)+2,
	)

	start = time.Now()
	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	r.record(ctx, "list", res.Table, start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", res.Table, err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan %s rows: %w", res.Table, err)
	}
	return result, total, nil
}

// Update는 부분 패치를 적용하고 갱신된 행을 반환합니다
func (r *resourceRepository) Update(ctx context.Context, res *entity.Resource, id interface{}, patch entity.Row) (entity.Row, error) {
	cols := orderedColumns(res, patch)
	if len(cols) == 0 {
		return nil, entity.ErrEmptyPatch
	}

	assignments := make([]string, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for i, col := range cols {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
		args = append(args, patch[col])
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		res.Table,
		strings.Join(assignments, ", "),
		len(cols)+1,
		strings.Join(res.Columns(), ", "),
	)

	updated, err := r.queryRow(ctx, res, "update", query, args...)
	if err != nil {
		if errors.Is(err, entity.ErrRowNotFound) {
			return nil, entity.ErrRowNotFound
		}
		return nil, fmt.Errorf("failed to update %s: %w", res.Table, err)
	}
	return updated, nil
}

// Delete는 행을 삭제합니다. 대상이 없으면 entity.ErrRowNotFound입니다
func (r *resourceRepository) Delete(ctx context.Context, res *entity.Resource, id interface{}) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", res.Table)

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, id)
	r.record(ctx, "delete", res.Table, start, err)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", res.Table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return entity.ErrRowNotFound
	}
	return nil
}

// DeleteMany는 id 집합을 단일 쿼리로 삭제합니다
func (r *resourceRepository) DeleteMany(ctx context.Context, res *entity.Resource, ids []interface{}) (int64, error) {
	arr, err := idArray(res, ids)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ANY($1)", res.Table)

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, arr)
	r.record(ctx, "bulk_delete", res.Table, start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete from %s: %w", res.Table, err)
	}
	return result.RowsAffected()
}

// ToggleMany는 bool 플래그를 id 집합 전체에 단일 쿼리로 설정합니다.
// updated_at 스탬프는 다른 쓰기 경로와 같이 호출자의 시계를 따릅니다
func (r *resourceRepository) ToggleMany(ctx context.Context, res *entity.Resource, flag string, value bool, ids []interface{}, now time.Time) (int64, error) {
	arr, err := idArray(res, ids)
	if err != nil {
		return 0, err
	}

	var query string
	var args []interface{}
	if res.HasUpdatedAt {
		query = fmt.Sprintf("UPDATE %s SET %s = $1, updated_at = $2 WHERE id = ANY($3)", res.Table, flag)
		args = []interface{}{value, now.UTC(), arr}
	} else {
		query = fmt.Sprintf("UPDATE %s SET %s = $1 WHERE id = ANY($2)", res.Table, flag)
		args = []interface{}{value, arr}
	}

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, args...)
	r.record(ctx, "bulk_toggle", res.Table, start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk toggle %s.%s: %w", res.Table, flag, err)
	}
	return result.RowsAffected()
}

// Stats는 전체/최근 개수와 status별 분포를 집계합니다
func (r *resourceRepository) Stats(ctx context.Context, res *entity.Resource) (entity.ResourceStats, error) {
	stats := entity.ResourceStats{}
	since := time.Now().UTC().Add(-statsRecentWindow)

	query := fmt.Sprintf(
		"SELECT COUNT(*), COUNT(*) FILTER (WHERE created_at >= $1) FROM %s",
		res.Table,
	)

	start := time.Now()
	err := r.db.QueryRowContext(ctx, query, since).Scan(&stats.Total, &stats.RecentCount)
	r.record(ctx, "stats", res.Table, start, err)
	if err != nil {
		return entity.ResourceStats{}, fmt.Errorf("failed to aggregate %s: %w", res.Table, err)
	}

	if _, ok := res.FieldByName("status"); ok {
		statusQuery := fmt.Sprintf("SELECT status, COUNT(*) FROM %s GROUP BY status", res.Table)

		start = time.Now()
		rows, err := r.db.QueryContext(ctx, statusQuery)
		r.record(ctx, "stats_status", res.Table, start, err)
		if err != nil {
			return entity.ResourceStats{}, fmt.Errorf("failed to aggregate %s by status: %w", res.Table, err)
		}
		defer rows.Close()

		stats.StatusCounts = make(map[string]int64)
		for rows.Next() {
			var status string
			var count int64
			if err := rows.Scan(&status, &count); err != nil {
				return entity.ResourceStats{}, fmt.Errorf("failed to scan status count: %w", err)
			}
			stats.StatusCounts[status] = count
		}
		if err := rows.Err(); err != nil {
			return entity.ResourceStats{}, fmt.Errorf("failed to read status counts: %w", err)
		}
	}

	return stats, nil
}

// queryRow는 단일 행 쿼리를 실행하고 entity.Row로 변환합니다
func (r *resourceRepository) queryRow(ctx context.Context, res *entity.Resource, op, query string, args ...interface{}) (entity.Row, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	r.record(ctx, op, res.Table, start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, entity.ErrRowNotFound
	}
	return result[0], nil
}

func (r *resourceRepository) record(ctx context.Context, op, table string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	elapsed := time.Since(start)
	r.metrics.RecordDBOperation(op, table, status, elapsed)
	logger.LogDBOperation(ctx, op, table, elapsed.Milliseconds(), err)
}

// buildWhere는 해석된 조건과 검색어를 WHERE 절로 변환합니다.
// 필드 조건은 AND, 검색 컬럼은 한 괄호 안에서 OR로 결합됩니다
func buildWhere(res *entity.Resource, q entity.ListQuery) (string, []interface{}) {
	clauses := make([]string, 0, len(q.Conditions)+1)
	args := make([]interface{}, 0, len(q.Conditions)+len(res.SearchColumns))

	for _, cond := range q.Conditions {
		switch cond.Op {
		case entity.OpContains:
			args = append(args, "%"+fmt.Sprintf("%v", cond.Value)+"%")
			clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", cond.Column, len(args)))
		default:
			args = append(args, cond.Value)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", cond.Column, len(args)))
		}
	}

	if q.Search != "" && len(res.SearchColumns) > 0 {
		parts := make([]string, 0, len(res.SearchColumns))
		for _, col := range res.SearchColumns {
			args = append(args, "%"+q.Search+"%")
			parts = append(parts, fmt.Sprintf("%s ILIKE $%d", col, len(args)))
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// orderedColumns는 행의 컬럼을 디스크립터 선언 순서로 반환합니다.
// map 순회 순서에 쿼리 텍스트가 흔들리지 않게 하기 위한 고정 순서입니다
func orderedColumns(res *entity.Resource, row entity.Row) []string {
	cols := make([]string, 0, len(row))
	if _, ok := row["created_at"]; ok {
		cols = append(cols, "created_at")
	}
	if _, ok := row["updated_at"]; ok {
		cols = append(cols, "updated_at")
	}
	for _, f := range res.Fields {
		if _, ok := row[f.Name]; ok {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// idArray는 id 목록을 lib/pq 배열 파라미터로 변환합니다
func idArray(res *entity.Resource, ids []interface{}) (interface{}, error) {
	switch res.IDKind {
	case entity.IDSerial:
		out := make([]int64, len(ids))
		for i, id := range ids {
			n, ok := id.(int64)
			if !ok {
				return nil, fmt.Errorf("%w: %v", entity.ErrInvalidID, id)
			}
			out[i] = n
		}
		return pq.Array(out), nil
	default:
		out := make([]string, len(ids))
		for i, id := range ids {
			s, ok := id.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %v", entity.ErrInvalidID, id)
			}
			out[i] = s
		}
		return pq.Array(out), nil
	}
}

// scanRows는 결과 집합을 entity.Row 목록으로 변환합니다
func scanRows(rows *sql.Rows) ([]entity.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := make([]entity.Row, 0)
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(entity.Row, len(cols))
		for i, col := range cols {
			row[col] = normalizeValue(values[i])
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// normalizeValue는 드라이버 타입을 도메인 표현으로 정규화합니다
func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
