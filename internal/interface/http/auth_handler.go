package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/application"
	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
	"github.com/oksasatya/go-ddd-identity/pkg/response"
	"github.com/oksasatya/go-ddd-identity/pkg/validation"
)

// AuthUseCases is the part of application.AuthService used over HTTP.
type AuthUseCases interface {
	SignUp(ctx context.Context, email, password string) error
	Verify(ctx context.Context, email, code, name string) (entity.User, error)
	ResendCode(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (entity.Token, error)
}

// SessionUseCases is the part of application.SessionService used over HTTP.
type SessionUseCases interface {
	Refresh(ctx context.Context, refresh string) (entity.Token, error)
	Logout(ctx context.Context, refresh string) error
}

type AuthHandler struct {
	Svc      AuthUseCases
	Sessions SessionUseCases
	Cookies  *helpers.Manager
	Logger   *logrus.Logger
}

func NewAuthHandler(svc AuthUseCases, sessions SessionUseCases, cookies *helpers.Manager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Sessions: sessions, Cookies: cookies, Logger: logger}
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required,identity_email"`
	Password string `json:"password" binding:"required,identity_password"`
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,identity_email"`
	Code  string `json:"code" binding:"required,verify_code"`
	Name  string `json:"name" binding:"required,identity_name"`
}

type resendRequest struct {
	Email string `json:"email" binding:"required,identity_email"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SignUp POST /api/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.SignUp(c.Request.Context(), req.Email, req.Password); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"email": req.Email}, "verification code sent", nil)
}

// Verify POST /api/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Verify(c.Request.Context(), req.Email, req.Code, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, application.DocumentFromUser(u), "email verified", nil)
}

// Resend POST /api/auth/verify/resend
func (h *AuthHandler) Resend(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResendCode(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"email": req.Email}, "verification code sent", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	tok, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.Cookies.SetPair(c, tok.JWT(), tok.Refresh())
	response.Success(c, http.StatusOK, tokenResponse{AccessToken: tok.JWT(), RefreshToken: tok.Refresh()}, "login successful", nil)
}

// Refresh POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, _ := c.Cookie(helpers.RefreshCookie)
	tok, err := h.Sessions.Refresh(c.Request.Context(), refresh)
	if err != nil {
		respondError(c, err)
		return
	}
	h.Cookies.SetPair(c, tok.JWT(), tok.Refresh())
	response.Success(c, http.StatusOK, tokenResponse{AccessToken: tok.JWT(), RefreshToken: tok.Refresh()}, "token refreshed", nil)
}

// Logout POST /api/auth/logout
// Cookies are cleared even when revoking the refresh token fails.
func (h *AuthHandler) Logout(c *gin.Context) {
	refresh, _ := c.Cookie(helpers.RefreshCookie)
	h.Cookies.Clear(c)
	if err := h.Sessions.Logout(c.Request.Context(), refresh); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}
