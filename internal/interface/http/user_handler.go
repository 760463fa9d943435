package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/application"
	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
	"github.com/oksasatya/go-ddd-identity/pkg/response"
	"github.com/oksasatya/go-ddd-identity/pkg/validation"
)

const maxIconBytes = 5 << 20

// UserUseCases is the part of application.Service used over HTTP.
type UserUseCases interface {
	FindByID(ctx context.Context, id string) (entity.User, error)
	UpdateProfile(ctx context.Context, id string, in application.UpdateProfileInput) (entity.User, error)
	UploadProfileIcon(ctx context.Context, id string, r io.Reader, filename, contentType string) (entity.User, error)
	SearchUsers(ctx context.Context, q string, size int) ([]application.UserDocument, error)
}

// GuestCreator creates credential-less users.
type GuestCreator interface {
	CreateGuest(ctx context.Context, email, name string) (entity.User, error)
}

type UserHandler struct {
	Svc       UserUseCases
	Guests    GuestCreator
	GCSBucket string
	Logger    *logrus.Logger
}

func NewUserHandler(svc UserUseCases, guests GuestCreator, gcsBucket string, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Guests: guests, GCSBucket: gcsBucket, Logger: logger}
}

type guestRequest struct {
	Email string `json:"email" binding:"required,identity_email"`
	Name  string `json:"name" binding:"required,identity_name"`
}

type updateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,identity_name"`
	UserType *int    `json:"user_type" binding:"omitempty,identity_user_type"`
}

type userResponse struct {
	application.UserDocument
	ProfileIconURL string `json:"profile_icon_url,omitempty"`
}

func (h *UserHandler) toResponse(u entity.User) userResponse {
	res := userResponse{UserDocument: application.DocumentFromUser(u)}
	if p, ok := u.ProfileIconPath(); ok && h.GCSBucket != "" {
		res.ProfileIconURL = helpers.PublicURL(h.GCSBucket, p)
	}
	return res
}

// CreateGuest POST /api/users/guest
func (h *UserHandler) CreateGuest(c *gin.Context) {
	var req guestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Guests.CreateGuest(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, h.toResponse(u), "guest created", nil)
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.toResponse(u), "user", nil)
}

// Update PUT /api/users/:id (owner only)
func (h *UserHandler) Update(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if !h.authorizeOwner(c) {
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.Param("id"), application.UpdateProfileInput{Name: req.Name, UserType: req.UserType})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.toResponse(u), "profile updated", nil)
}

// UploadIcon POST /api/users/:id/icon (owner only, multipart field "file")
func (h *UserHandler) UploadIcon(c *gin.Context) {
	if !h.authorizeOwner(c) {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "file is required", nil)
		return
	}
	if fh.Size > maxIconBytes {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Error[any](c, http.StatusUnsupportedMediaType, "file must be an image", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadProfileIcon(c.Request.Context(), c.Param("id"), f, fh.Filename, contentType)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.toResponse(u), "profile icon updated", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	res, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Warn("user search failed")
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "users", map[string]any{"count": len(res)})
}

// authorizeOwner aborts unless the authenticated email owns the :id user.
func (h *UserHandler) authorizeOwner(c *gin.Context) bool {
	u, err := h.Svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return false
	}
	if u.Email().String() != c.GetString(middleware.CtxEmailKey) {
		response.Error[any](c, http.StatusForbidden, "forbidden", nil)
		return false
	}
	return true
}
