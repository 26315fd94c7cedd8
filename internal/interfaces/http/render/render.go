package render

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/YouSangSon/admin-backoffice/internal/application/dto"
	"github.com/YouSangSon/admin-backoffice/internal/domain/entity"
)

// ModeKey는 negotiate 미들웨어가 결정한 렌더링 모드를 담는 gin 컨텍스트 키입니다
const ModeKey = "render.mode"

// Mode는 응답 렌더링 모드입니다
type Mode int

const (
	// ModeJSON은 JSON 엔벨로프 응답입니다 (기본)
	ModeJSON Mode = iota
	// ModeFragment는 DOM 주입용 HTML 프래그먼트 응답입니다
	ModeFragment
)

// FromContext는 요청의 렌더링 모드를 반환합니다. 미들웨어가 모드를
// 설정하지 않았다면 JSON입니다
func FromContext(c *gin.Context) Mode {
	if v, ok := c.Get(ModeKey); ok {
		if mode, ok := v.(Mode); ok {
			return mode
		}
	}
	return ModeJSON
}

var rowTmpl = template.Must(template.New("row").Parse(
	`<tr id="{{.Resource}}-{{.ID}}" class="admin-row">{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
`))

var paginationTmpl = template.Must(template.New("pagination").Parse(
	`<tr class="admin-pagination"><td colspan="{{.Colspan}}"><nav class="pagination">
{{- if .HasPrev}}<a class="page-prev" data-page="{{.PrevPage}}">&laquo;</a>{{else}}<span class="page-prev"></span>{{end -}}
{{- range .Pages}}<a class="page-link{{if .Current}} current{{end}}" data-page="{{.Number}}">{{.Number}}</a>{{end -}}
{{- if .HasNext}}<a class="page-next" data-page="{{.NextPage}}">&raquo;</a>{{else}}<span class="page-next"></span>{{end -}}
</nav></td></tr>
`))

var errorTmpl = template.Must(template.New("error").Parse(
	`<tr class="admin-error"><td colspan="12"><div class="error-notice" style="color:#b91c1c;padding:8px;">{{.Message}}</div></td></tr>
`))

var emptyTmpl = template.Must(template.New("empty").Parse(
	`<tr class="admin-empty"><td colspan="{{.Colspan}}">No {{.Resource}} found</td></tr>
`))

type rowView struct {
	Resource string
	ID       string
	Cells    []string
}

type pageLink struct {
	Number  int
	Current bool
}

type paginationView struct {
	Colspan  int
	Pages    []pageLink
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int
}

// List는 목록 결과를 모드에 따라 렌더링합니다.
// JSON 모드는 {success,data,pagination} 엔벨로프, 프래그먼트 모드는
// 행 프래그먼트들 뒤에 페이지네이션 컨트롤 프래그먼트를 붙입니다
func List(c *gin.Context, res *entity.Resource, result *dto.ListResult) {
	if FromContext(c) == ModeJSON {
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"data":       result.Rows,
			"pagination": result.Pagination(),
		})
		return
	}

	var b strings.Builder
	colspan := len(res.DisplayColumns)
	if colspan == 0 {
		colspan = 1
	}

	if len(result.Rows) == 0 {
		_ = emptyTmpl.Execute(&b, map[string]interface{}{
			"Colspan":  colspan,
			"Resource": res.Name,
		})
	}
	for _, row := range result.Rows {
		_ = rowTmpl.Execute(&b, rowView{
			Resource: res.Name,
			ID:       row.ID(),
			Cells:    displayCells(res, row),
		})
	}

	// 단일 페이지여도 페이지네이션 프래그먼트는 항상 내보냅니다.
	// JSON의 total_pages와 페이지 링크 개수가 같아야 합니다
	totalPages := result.TotalPages()
	if totalPages >= 1 {
		_ = paginationTmpl.Execute(&b, buildPaginationView(result.Page, totalPages, colspan))
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(b.String()))
}

// Item은 단일 행을 모드에 따라 렌더링합니다
func Item(c *gin.Context, status int, res *entity.Resource, row entity.Row) {
	if FromContext(c) == ModeJSON {
		c.JSON(status, gin.H{"success": true, "data": row})
		return
	}

	var b strings.Builder
	_ = rowTmpl.Execute(&b, rowView{
		Resource: res.Name,
		ID:       row.ID(),
		Cells:    displayCells(res, row),
	})
	c.Data(status, "text/html; charset=utf-8", []byte(b.String()))
}

// JSON은 모드와 무관하게 성공 엔벨로프를 JSON으로 내보냅니다
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// Error는 에러를 모드에 따라 렌더링합니다. 두 모드 모두 터미널 응답입니다
func Error(c *gin.Context, status int, err error) {
	if FromContext(c) == ModeJSON {
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	var b strings.Builder
	_ = errorTmpl.Execute(&b, map[string]string{"Message": err.Error()})
	c.Data(status, "text/html; charset=utf-8", []byte(b.String()))
}

// PageWindow는 현재 페이지를 중심으로 최대 5개의 페이지 번호 구간을
// [1, totalPages]로 클램프해 계산합니다
func PageWindow(page, totalPages int) []int {
	if totalPages < 1 {
		return nil
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := page - 2
	if start < 1 {
		start = 1
	}
	end := start + 4
	if end > totalPages {
		end = totalPages
		start = end - 4
		if start < 1 {
			start = 1
		}
	}

	window := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		window = append(window, n)
	}
	return window
}

func buildPaginationView(page, totalPages, colspan int) paginationView {
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	window := PageWindow(page, totalPages)
	links := make([]pageLink, 0, len(window))
	for _, n := range window {
		links = append(links, pageLink{Number: n, Current: n == page})
	}

	return paginationView{
		Colspan:  colspan,
		Pages:    links,
		HasPrev:  page > 1,
		HasNext:  page < totalPages,
		PrevPage: page - 1,
		NextPage: page + 1,
	}
}

// displayCells는 디스크립터의 DisplayColumns 순서대로 셀 텍스트를 만듭니다
func displayCells(res *entity.Resource, row entity.Row) []string {
	cells := make([]string, 0, len(res.DisplayColumns))
	for _, col := range res.DisplayColumns {
		cells = append(cells, formatCell(row[col]))
	}
	return cells
}

func formatCell(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		if value {
			return "yes"
		}
		return "no"
	case time.Time:
		return value.Format("2006-01-02 15:04")
	case float64:
		return fmt.Sprintf("%.2f", value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
