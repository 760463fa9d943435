package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-identity/internal/container"
	handlers "github.com/oksasatya/go-ddd-identity/internal/interface/http"
	"github.com/oksasatya/go-ddd-identity/internal/interface/middleware"
)

// AuthModule serves sign-up, verification and session endpoints under /auth.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	signupLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	resendLimiter := middleware.RateLimit(rdb, 3, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)

	auth := rg.Group("/auth")
	auth.POST("/signup", signupLimiter, m.Handler.SignUp)
	auth.POST("/verify", verifyLimiter, m.Handler.Verify)
	auth.POST("/verify/resend", resendLimiter, m.Handler.Resend)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	auth.POST("/logout", m.Handler.Logout)
}
