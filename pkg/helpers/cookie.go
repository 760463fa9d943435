package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

type Manager struct {
	Domain     string
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewCookie(domain string, secure bool, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{Domain: domain, Secure: secure, AccessTTL: accessTTL, RefreshTTL: refreshTTL}
}

// SetPair writes both tokens as HttpOnly cookies living as long as the tokens.
func (m *Manager) SetPair(c *gin.Context, access, refresh string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, access, int(m.AccessTTL.Seconds()), "/", m.Domain, m.Secure, true)
	c.SetCookie(RefreshCookie, refresh, int(m.RefreshTTL.Seconds()), "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, "", -1, "/", m.Domain, m.Secure, true)
	c.SetCookie(RefreshCookie, "", -1, "/", m.Domain, m.Secure, true)
}
