package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/YouSangSon/admin-backoffice/internal/domain/entity"
)

func testResource() *entity.Resource {
	return &entity.Resource{
		Name:   "projects",
		Table:  "projects",
		IDKind: entity.IDUUID,
		Fields: []entity.Field{
			{Name: "name", Kind: entity.KindString, Required: true},
			{Name: "owner", Kind: entity.KindString, Filterable: true},
			{Name: "status", Kind: entity.KindString, Filterable: true, Default: "draft"},
			{Name: "priority", Kind: entity.KindInt},
			{Name: "is_archived", Kind: entity.KindBool, Toggleable: true, Default: false},
		},
		SearchColumns:  []string{"name"},
		HasUpdatedAt:   true,
		DisplayColumns: []string{"name", "owner", "status", "created_at"},
	}
}

func TestValidateNew_AppliesDefaultsAndTimestamps(t *testing.T) {
	// Arrange
	res := testResource()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Act
	row, err := res.ValidateNew(map[string]interface{}{
		"name":  "Apollo",
		"owner": "kim",
	}, now)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "Apollo", row["name"])
	assert.Equal(t, "draft", row["status"])
	assert.Equal(t, false, row["is_archived"])
	assert.Equal(t, now, row["created_at"])
	assert.Equal(t, now, row["updated_at"])
}

func TestValidateNew_MissingRequiredField(t *testing.T) {
	res := testResource()

	_, err := res.ValidateNew(map[string]interface{}{"owner": "kim"}, time.Now())

	assert.ErrorIs(t, err, entity.ErrMissingRequiredField)
}

func TestValidateNew_NullRequiredFieldRejected(t *testing.T) {
	res := testResource()

	// 명시적 null이 필수 필드의 Required 검사를 우회하면 안 됩니다
	_, err := res.ValidateNew(map[string]interface{}{"name": nil}, time.Now())

	assert.ErrorIs(t, err, entity.ErrMissingRequiredField)
}

func TestValidatePatch_NullRequiredFieldRejected(t *testing.T) {
	res := testResource()

	_, err := res.ValidatePatch(map[string]interface{}{"name": nil}, time.Now())

	assert.ErrorIs(t, err, entity.ErrMissingRequiredField)
}

func TestValidateNew_RejectsUnknownField(t *testing.T) {
	res := testResource()

	_, err := res.ValidateNew(map[string]interface{}{
		"name":    "Apollo",
		"payload": "free-form",
	}, time.Now())

	assert.ErrorIs(t, err, entity.ErrUnknownField)
}

func TestValidateNew_CoercesJSONNumbers(t *testing.T) {
	res := testResource()

	// JSON 디코더는 정수도 float64로 넘깁니다
	row, err := res.ValidateNew(map[string]interface{}{
		"name":     "Apollo",
		"priority": float64(3),
	}, time.Now())

	assert.NoError(t, err)
	assert.Equal(t, int64(3), row["priority"])
}

func TestValidateNew_RejectsWrongType(t *testing.T) {
	res := testResource()

	_, err := res.ValidateNew(map[string]interface{}{
		"name":     "Apollo",
		"priority": "high",
	}, time.Now())

	assert.ErrorIs(t, err, entity.ErrInvalidFieldValue)
}

func TestValidatePatch_EmptyPatch(t *testing.T) {
	res := testResource()

	_, err := res.ValidatePatch(map[string]interface{}{}, time.Now())

	assert.ErrorIs(t, err, entity.ErrEmptyPatch)
}

func TestValidatePatch_RejectsManagedColumns(t *testing.T) {
	res := testResource()

	for _, col := range []string{"id", "created_at", "updated_at"} {
		_, err := res.ValidatePatch(map[string]interface{}{col: "x"}, time.Now())
		assert.ErrorIs(t, err, entity.ErrUnknownField, col)
	}
}

func TestValidatePatch_StampsUpdatedAt(t *testing.T) {
	res := testResource()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	row, err := res.ValidatePatch(map[string]interface{}{"status": "active"}, now)

	assert.NoError(t, err)
	assert.Equal(t, "active", row["status"])
	assert.Equal(t, now, row["updated_at"])
	_, hasName := row["name"]
	assert.False(t, hasName, "untouched fields must stay out of the patch")
}

func TestToggleFlag(t *testing.T) {
	res := testResource()

	tests := []struct {
		action string
		flag   string
		ok     bool
	}{
		{"toggle_is_archived", "is_archived", true},
		{"toggle_archived", "is_archived", true}, // is_ 접두사 생략 허용
		{"toggle_status", "", false},             // bool이 아님
		{"toggle_unknown", "", false},
		{"delete", "", false},
	}

	for _, tt := range tests {
		flag, ok := res.ToggleFlag(tt.action)
		assert.Equal(t, tt.ok, ok, tt.action)
		assert.Equal(t, tt.flag, flag, tt.action)
	}
}

func TestParseID(t *testing.T) {
	serial := &entity.Resource{Name: "invoices", Table: "invoices", IDKind: entity.IDSerial}
	uuidRes := testResource()

	id, err := serial.ParseID("42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = serial.ParseID("abc")
	assert.ErrorIs(t, err, entity.ErrInvalidID)

	id, err = uuidRes.ParseID("6f1d2d15-9a7d-4af0-8cbb-1f0a25a2a5bd")
	assert.NoError(t, err)
	assert.Equal(t, "6f1d2d15-9a7d-4af0-8cbb-1f0a25a2a5bd", id)

	_, err = uuidRes.ParseID("not-a-uuid")
	assert.ErrorIs(t, err, entity.ErrInvalidID)
}

func TestNormalizeRow_RestoresTypesAfterJSONRoundTrip(t *testing.T) {
	// Arrange: JSON 왕복을 거친 행은 정수가 float64, 시간이 문자열입니다
	res := &entity.Resource{
		Name:   "billing",
		Table:  "billing",
		IDKind: entity.IDSerial,
		Fields: []entity.Field{
			{Name: "amount_cents", Kind: entity.KindInt},
			{Name: "billed_at", Kind: entity.KindTime},
		},
	}
	row := entity.Row{
		"id":           float64(42),
		"amount_cents": float64(1500),
		"billed_at":    "2026-03-01T12:00:00Z",
		"created_at":   "2026-02-01T09:30:00Z",
	}

	// Act
	got := res.NormalizeRow(row)

	// Assert
	assert.Equal(t, "42", got.ID())
	assert.Equal(t, int64(42), got["id"])
	assert.Equal(t, int64(1500), got["amount_cents"])
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), got["billed_at"])
	assert.Equal(t, time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC), got["created_at"])
	// 원본 행은 그대로여야 합니다
	assert.Equal(t, float64(42), row["id"])
}

func TestColumns_IncludeManagedColumnsInOrder(t *testing.T) {
	res := testResource()

	assert.Equal(t,
		[]string{"id", "created_at", "updated_at", "name", "owner", "status", "priority", "is_archived"},
		res.Columns(),
	)
}

func TestDefaultRegistry_CoversCatalog(t *testing.T) {
	reg := entity.DefaultRegistry()

	for _, name := range []string{
		"accounts", "billing", "projects", "funding", "business-models",
		"financial-models", "learning-content", "landing-pages",
		"subscriptions", "invoices", "team-members", "testimonials",
	} {
		res, err := reg.Lookup(name)
		assert.NoError(t, err, name)
		assert.NotEmpty(t, res.Table, name)
	}

	_, err := reg.Lookup("nope")
	assert.ErrorIs(t, err, entity.ErrUnknownResource)
}
