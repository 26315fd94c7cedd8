package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/YouSangSon/admin-backoffice/internal/interfaces/http/render"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/logger"
)

const (
	// ActorKey는 context에서 인증된 주체를 저장하는 키입니다
	ActorKey = "actor"
)

// AuthConfig는 JWT 인증 설정입니다
type AuthConfig struct {
	Enabled bool
	Secret  string
	Issuer  string
}

// AuthMiddleware는 Bearer 토큰을 검증하고 주체를 컨텍스트에 싣습니다.
// 비활성화 상태면 모든 요청을 익명 주체로 통과시킵니다
func AuthMiddleware(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Set(ActorKey, "anonymous")
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			render.Error(c, http.StatusUnauthorized, fmt.Errorf("missing bearer token"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		}, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			logger.Warn(c.Request.Context(), "token validation failed",
				logger.RemoteAddr(c.ClientIP()),
			)
			render.Error(c, http.StatusUnauthorized, fmt.Errorf("invalid token"))
			c.Abort()
			return
		}

		actor := "unknown"
		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			actor = sub
		}

		c.Set(ActorKey, actor)
		ctx := logger.WithFields(c.Request.Context(), logger.Actor(actor))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetActor는 컨텍스트의 인증된 주체를 반환합니다
func GetActor(c *gin.Context) string {
	if actor, exists := c.Get(ActorKey); exists {
		if s, ok := actor.(string); ok {
			return s
		}
	}
	return "anonymous"
}
