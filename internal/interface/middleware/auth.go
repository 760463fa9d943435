package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
	"github.com/oksasatya/go-ddd-identity/pkg/response"
)

// CtxEmailKey holds the authenticated email in the Gin context.
const CtxEmailKey = "userEmail"

// AccessTokenParser validates an access token and returns its claims.
type AccessTokenParser interface {
	ParseAccessToken(token string) (*helpers.Claims, error)
}

// Auth validates the access token from the access_token cookie or a Bearer
// Authorization header and sets userEmail in the Gin context on success.
func Auth(jwt AccessTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, entity.ErrTokenMissing.Error(), nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}
		c.Set(CtxEmailKey, claims.Email)
		c.Next()
	}
}

func accessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if token, err := c.Cookie(helpers.AccessCookie); err == nil {
		return token
	}
	return ""
}
