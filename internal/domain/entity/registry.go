package entity

import (
	"fmt"
	"sort"
)

// Registry는 등록된 리소스 디스크립터의 모음입니다.
// 프로세스 시작 시 구성되어 이후에는 읽기 전용입니다
type Registry struct {
	resources map[string]*Resource
}

// NewRegistry는 주어진 디스크립터로 레지스트리를 구성합니다
func NewRegistry(resources ...*Resource) (*Registry, error) {
	m := make(map[string]*Resource, len(resources))
	for _, res := range resources {
		if res.Name == "" || res.Table == "" {
			return nil, fmt.Errorf("resource descriptor missing name or table: %+v", res)
		}
		if _, dup := m[res.Name]; dup {
			return nil, fmt.Errorf("duplicate resource %q", res.Name)
		}
		m[res.Name] = res
	}
	return &Registry{resources: m}, nil
}

// Lookup은 리소스 디스크립터를 찾습니다
func (r *Registry) Lookup(name string) (*Resource, error) {
	res, ok := r.resources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	return res, nil
}

// Names는 등록된 리소스 이름을 정렬해 반환합니다
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.resources))
	for name := range r.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry는 어드민 백오피스의 전체 리소스 카탈로그를 구성합니다.
// 리소스 추가는 여기 디스크립터 하나를 추가하는 것으로 끝납니다
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(
		&Resource{
			Name:   "accounts",
			Table:  "accounts",
			IDKind: IDUUID,
			Fields: []Field{
				{Name: "name", Kind: KindString, Required: true},
				{Name: "email", Kind: KindString, Required: true},
				{Name: "plan", Kind: KindString, Filterable: true, Default: "free"},
				{Name: "status", Kind: KindString, Filterable: true, Default: "active"},
				{Name: "is_active", Kind: KindBool, Toggleable: true, Default: true},
			},
			SearchColumns:  []string{"name", "email"},
			HasUpdatedAt:   true,
			DisplayColumns: []string{"name", "email", "plan", "status", "created_at"},
		},
		&Resource{
			Name:   "billing",
			Table:  "billing",
			IDKind: IDSerial,
			Fields: []Field{
				{Name: "account_id", Kind: KindString, Required: true, Filterable: true},
				{Name: "description", Kind: KindString},
				{Name: "amount_cents", Kind: KindInt, Required: true},
				{Name: "currency", Kind: KindString, Filterable: true, Default: "USD"},
				{Name: "status", Kind: KindString, Filterable: true, Default: "pending"},
				{Name: "billed_at", Kind: KindTime},
			},
			SearchColumns:  []string{"description"},
			DisplayColumns: []string{"account_id", "description", "amount_cents", "status", "created_at"},
		},
		&Resource{
			Name:   "projects",
			Table:  "projects",
			IDKind: IDUUID,
			Fields: []Field{
				{Name: "name", Kind: KindString, Required: true},
				{Name: "description", Kind: KindString},
				{Name: "owner", Kind: KindString, Filterable: true},
				{Name: "status", Kind: KindString, Filterable: true, Default: "draft"},
				{Name: "is_archived", Kind: KindBool, Toggleable: true, Default: false},
			},
			SearchColumns:  []string{"name", "description", "owner"},
			HasUpdatedAt:   true,
			DisplayColumns: []string{"name", "owner", "status", "created_at"},
		},
		&Resource{
			Name:   "funding",
			Table:  "funding_rounds",
			IDKind: IDUUID,
			Fields: []Field{
				{Name: "company", Kind: KindString, Required: true},
				{Name: "funding_stage", Kind: KindString, Filterable: true},
				{Name: "amount_cents", Kind: KindInt},
				{Name: "investor", Kind: KindString, Filterable: true, Substring: true},
				{Name: "status", Kind: KindString, Filterable: true, Default: "open"},
				{Name: "closed_at", Kind: KindTime},
			},
			SearchColumns:  []string{"company", "investor"},
			HasUpdatedAt:   true,
			DisplayColumns: []string{"company", "funding_stage", "amount_cents", "status", "created_at"},
		},
		&Resource{
			Name:   "business-models",
			Table:  "business_models",
			IDKind: IDUUID,
			Fields: []Field{
				{Name: "title", Kind: KindString, Required: true},
				{Name: "summary", Kind: KindString},
				{Name: "category", Kind: KindString, Filterable: true},
				{Name: "status", Kind: KindString, Filterable: true, Default: "draft"},
				{Name: "is_published", Kind: KindBool, Toggleable: true, Default: false},
			},
			SearchColumns:  []string{"title", "summary"},
			HasUpdatedAt:   true,
			DisplayColumns: []string{"title", "category", "status", "created_at"},
		},
		&Resource{
			Name:   "financial-models",
			Table:  "financial_models",
			IDKind: IDUUID,
			Fields: []Field{
				{Name: "title", Kind: KindString, Required: true},
				{Name: "industry", Kind: KindString, Filterable: true},
				{Name: "price_cents", Kind: KindInt},
				{Name: "status", Kind: KindString, Filterable: true, Default: "draft"},
				{Name: "is_published", Kind: KindBool, Toggleable: true, Default: false},
			},
			SearchColumns:  []string{"title", "industry"},
			HasUpdatedAt:   true,
			DisplayColumns: []string{"title", "industry", "price_cents", "status", "created_at"},
		},
		&Resource{
			Name:   "learning-content",
			Table:  "learning_content",
			IDKind: IDUUID,
			Fields: []Field{
				{Name: "title", Kind: KindString, Required: true},
				{Name: "body", Kind: KindString},
				{Name: "topic", Kind: KindString, Filterable: true},
				{Name: "level", Kind: KindString, Filterable: true},
				{Name: "status", Kind: KindString, Filterable: true, Default: "draft"},
				{Name: "is_published", Kind: KindBool, Toggleable: true, Default: false},
			},
			SearchColumns:  []string{"title", "body", "topic"},
			HasUpdatedAt:   true,
			DisplayColumns: []string{"title", "topic", "level", "status", "created_at"},
		},
		&Resource{
			Name:   "landing-pages",
			Table:  "landing_pages",
			IDKind: IDUUID,
			Fields: []Field{
				{Name: "title", Kind: KindString, Required: true},
				{Name: "slug", Kind: KindString, Required: true, Filterable: true},
				{Name: "sort_order", Kind: KindInt, Default: int64(0)},
				{Name: "status", Kind: KindString, Filterable: true, Default: "draft"},
				{Name: "is_active", Kind: KindBool, Toggleable: true, Default: true},
			},
			SearchColumns:  []string{"title", "slug"},
			DefaultOrder:   "sort_order ASC, created_at DESC",
			HasUpdatedAt:   true,
			DisplayColumns: []string{"title", "slug", "sort_order", "status", "created_at"},
		},
		&Resource{
			Name:   "subscriptions",
			Table:  "subscriptions",
			IDKind: IDUUID,
			Fields: []Field{
				{Name: "account_id", Kind: KindString, Required: true, Filterable: true},
				{Name: "plan", Kind: KindString, Required: true, Filterable: true},
				{Name: "status", Kind: KindString, Filterable: true, Default: "trialing"},
				{Name: "renews_at", Kind: KindTime},
				{Name: "is_active", Kind: KindBool, Toggleable: true, Default: true},
			},
			SearchColumns:  []string{"plan"},
			HasUpdatedAt:   true,
			DisplayColumns: []string{"account_id", "plan", "status", "renews_at", "created_at"},
		},
		&Resource{
			Name:   "invoices",
			Table:  "invoices",
			IDKind: IDSerial,
			Fields: []Field{
				{Name: "account_id", Kind: KindString, Required: true, Filterable: true},
				{Name: "number", Kind: KindString, Required: true, Filterable: true},
				{Name: "amount_cents", Kind: KindInt, Required: true},
				{Name: "currency", Kind: KindString, Default: "USD"},
				{Name: "status", Kind: KindString, Filterable: true, Default: "open"},
				{Name: "due_at", Kind: KindTime},
			},
			SearchColumns:  []string{"number"},
			DisplayColumns: []string{"number", "account_id", "amount_cents", "status", "created_at"},
		},
		&Resource{
			Name:   "team-members",
			Table:  "team_members",
			IDKind: IDUUID,
			Fields: []Field{
				{Name: "name", Kind: KindString, Required: true},
				{Name: "email", Kind: KindString, Required: true},
				{Name: "role", Kind: KindString, Filterable: true, Default: "viewer"},
				{Name: "is_active", Kind: KindBool, Toggleable: true, Default: true},
			},
			SearchColumns:  []string{"name", "email"},
			HasUpdatedAt:   true,
			DisplayColumns: []string{"name", "email", "role", "created_at"},
		},
		&Resource{
			Name:   "testimonials",
			Table:  "testimonials",
			IDKind: IDUUID,
			Fields: []Field{
				{Name: "author", Kind: KindString, Required: true},
				{Name: "company", Kind: KindString, Substring: true, Filterable: true},
				{Name: "quote", Kind: KindString, Required: true},
				{Name: "rating", Kind: KindInt},
				{Name: "sort_order", Kind: KindInt, Default: int64(0)},
				{Name: "is_published", Kind: KindBool, Toggleable: true, Default: false},
			},
			SearchColumns:  []string{"author", "company", "quote"},
			DefaultOrder:   "sort_order ASC, created_at DESC",
			DisplayColumns: []string{"author", "company", "rating", "created_at"},
		},
	)
	if err != nil {
		// 카탈로그는 컴파일 타임 상수에 준하므로 구성 실패는 프로그래밍 오류입니다
		panic(err)
	}
	return reg
}
