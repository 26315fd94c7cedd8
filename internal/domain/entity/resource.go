package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FieldKind는 필드의 값 타입입니다
type FieldKind int

const (
	// KindString은 문자열 필드입니다
	KindString FieldKind = iota
	// KindInt는 정수 필드입니다
	KindInt
	// KindFloat은 실수 필드입니다
	KindFloat
	// KindBool은 불리언 필드입니다
	KindBool
	// KindTime은 타임스탬프 필드입니다
	KindTime
)

// IDKind는 리소스 id의 종류입니다
type IDKind int

const (
	// IDSerial은 저장소가 할당하는 정수 id입니다
	IDSerial IDKind = iota
	// IDUUID는 저장소가 할당하는 UUID id입니다
	IDUUID
)

// Field는 리소스의 단일 필드 선언입니다
type Field struct {
	Name       string
	Kind       FieldKind
	Required   bool
	Filterable bool // 목록 필터로 노출
	Substring  bool // 필터 시 완전 일치 대신 부분 일치(ILIKE)
	Toggleable bool // bulk toggle 대상 플래그 (bool 필드만)
	Default    interface{}
}

// Resource는 백오피스 리소스 디스크립터입니다. 테이블 하나와
// 그 위의 CRUD/목록/렌더링 규칙 전부를 선언적으로 정의합니다
type Resource struct {
	Name           string // URL 세그먼트이자 레지스트리 키
	Table          string
	IDKind         IDKind
	Fields         []Field
	SearchColumns  []string // search 파라미터가 OR ILIKE로 훑는 컬럼들
	DefaultOrder   string   // 비어 있으면 created_at DESC
	HasUpdatedAt   bool
	DisplayColumns []string // HTML fragment / export에 노출되는 컬럼 순서
}

// FieldByName은 선언된 필드를 찾습니다
func (r *Resource) FieldByName(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Columns는 SELECT 대상 컬럼 목록을 반환합니다 (id, created_at 포함)
func (r *Resource) Columns() []string {
	cols := make([]string, 0, len(r.Fields)+3)
	cols = append(cols, "id", "created_at")
	if r.HasUpdatedAt {
		cols = append(cols, "updated_at")
	}
	for _, f := range r.Fields {
		cols = append(cols, f.Name)
	}
	return cols
}

// Order는 ORDER BY 절을 반환합니다
func (r *Resource) Order() string {
	if r.DefaultOrder != "" {
		return r.DefaultOrder
	}
	return "created_at DESC"
}

// ParseID는 요청 경로의 id 문자열을 저장소 타입으로 변환합니다
func (r *Resource) ParseID(raw string) (interface{}, error) {
	switch r.IDKind {
	case IDSerial:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidID, raw)
		}
		return n, nil
	case IDUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidID, raw)
		}
		return id.String(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidID, raw)
}

// ValidateNew는 생성 입력을 검증하고 기본값과 created_at을 채운 행을 반환합니다.
// 선언되지 않은 필드는 거부합니다 (자유 형식 필드 백 금지)
func (r *Resource) ValidateNew(data map[string]interface{}, now time.Time) (Row, error) {
	row := make(Row, len(r.Fields)+2)
	for name, value := range data {
		f, ok := r.FieldByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		coerced, err := coerce(f, value)
		if err != nil {
			return nil, err
		}
		// 명시적 null은 필수 필드를 비울 수 없습니다 (NOT NULL 위반이 400으로 잡혀야 함)
		if coerced == nil && f.Required {
			return nil, fmt.Errorf("%w: %q", ErrMissingRequiredField, f.Name)
		}
		row[name] = coerced
	}

	for _, f := range r.Fields {
		if _, present := row[f.Name]; present {
			continue
		}
		if f.Default != nil {
			row[f.Name] = f.Default
			continue
		}
		if f.Required {
			return nil, fmt.Errorf("%w: %q", ErrMissingRequiredField, f.Name)
		}
	}

	row["created_at"] = now.UTC()
	if r.HasUpdatedAt {
		row["updated_at"] = now.UTC()
	}
	return row, nil
}

// ValidatePatch는 부분 업데이트 입력을 검증합니다. 빠진 필드는 건드리지 않으며
// updated_at은 호출 시점으로 갱신됩니다
func (r *Resource) ValidatePatch(patch map[string]interface{}, now time.Time) (Row, error) {
	if len(patch) == 0 {
		return nil, ErrEmptyPatch
	}
	row := make(Row, len(patch)+1)
	for name, value := range patch {
		if name == "id" || name == "created_at" || name == "updated_at" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		f, ok := r.FieldByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		coerced, err := coerce(f, value)
		if err != nil {
			return nil, err
		}
		if coerced == nil && f.Required {
			return nil, fmt.Errorf("%w: %q", ErrMissingRequiredField, f.Name)
		}
		row[name] = coerced
	}
	if r.HasUpdatedAt {
		row["updated_at"] = now.UTC()
	}
	return row, nil
}

// ToggleFlag는 bulk toggle 대상 플래그인지 확인합니다.
// "toggle_is_active" 형태의 action 이름을 플래그 컬럼으로 해석합니다
func (r *Resource) ToggleFlag(action string) (string, bool) {
	const prefix = "toggle_"
	if !strings.HasPrefix(action, prefix) {
		return "", false
	}
	flag := strings.TrimPrefix(action, prefix)
	f, ok := r.FieldByName(flag)
	if !ok {
		// "toggle_active"처럼 is_ 접두사를 생략한 action 이름 허용
		flag = "is_" + flag
		f, ok = r.FieldByName(flag)
	}
	if !ok || !f.Toggleable || f.Kind != KindBool {
		return "", false
	}
	return flag, true
}

// NormalizeRow는 JSON 왕복을 거친 행을 디스크립터 타입으로 되돌립니다.
// 캐시에 저장된 행은 정수가 float64로, 타임스탬프가 문자열로 돌아오므로
// 그대로 쓰면 렌더링이 원본 조회와 달라집니다
func (r *Resource) NormalizeRow(row Row) Row {
	out := row.Clone()
	if r.IDKind == IDSerial {
		if n, ok := out["id"].(float64); ok {
			out["id"] = int64(n)
		}
	}
	for _, col := range []string{"created_at", "updated_at"} {
		if s, ok := out[col].(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				out[col] = t
			}
		}
	}
	for _, f := range r.Fields {
		v, ok := out[f.Name]
		if !ok || v == nil {
			continue
		}
		switch f.Kind {
		case KindInt:
			if n, ok := v.(float64); ok {
				out[f.Name] = int64(n)
			}
		case KindTime:
			if s, ok := v.(string); ok {
				if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
					out[f.Name] = t
				}
			}
		}
	}
	return out
}

// coerce는 JSON 디코딩 결과를 필드 타입으로 강제 변환합니다
func coerce(f Field, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	switch f.Kind {
	case KindString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case KindInt:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v == float64(int64(v)) {
				return int64(v), nil
			}
		case string:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n, nil
			}
		}
	case KindFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
	case KindBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case KindTime:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: field %q got %T", ErrInvalidFieldValue, f.Name, value)
}
