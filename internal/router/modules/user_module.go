package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-identity/internal/container"
	handlers "github.com/oksasatya/go-ddd-identity/internal/interface/http"
	"github.com/oksasatya/go-ddd-identity/internal/interface/middleware"
)

// UserModule wires profile endpoints.
// Public: POST /api/users/guest
// Protected: GET /api/users/search, GET|PUT /api/users/:id, POST /api/users/:id/icon
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     middleware.AccessTokenParser
}

func NewUserModule(h *handlers.UserHandler, jwt middleware.AccessTokenParser) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	users := rg.Group("/users")

	guestLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	users.POST("/guest", guestLimiter, m.Handler.CreateGuest)

	auth := users.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByEmail(), nil),
	)
	{
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.POST("/:id/icon", m.Handler.UploadIcon)
	}
}
