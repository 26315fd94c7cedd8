package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/YouSangSon/admin-backoffice/internal/interfaces/http/render"
)

// FragmentHeader는 동적 프래그먼트 클라이언트가 보내는 마커 헤더입니다.
// 이 헤더가 "true"면 응답은 DOM 주입용 HTML 프래그먼트로 렌더링됩니다
const FragmentHeader = "HX-Request"

// NegotiateMiddleware는 요청당 한 번 JSON/프래그먼트 렌더링 모드를 결정합니다.
// 핸들러는 이후 render 패키지를 통해 모드 분기 없이 응답을 내보냅니다
func NegotiateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := render.ModeJSON
		if c.GetHeader(FragmentHeader) == "true" {
			mode = render.ModeFragment
		}
		c.Set(render.ModeKey, mode)
		c.Next()
	}
}
