package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxEmailKey)+"|"+c.GetString("real_ip")+"|"+c.GetString("request_id"))
	})
	return r
}

func TestAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	access, refresh, err := jwt.GeneratePair("a@example.com")
	require.NoError(t, err)
	r := newEngine(Auth(jwt))

	tests := []struct {
		name   string
		setup  func(req *http.Request)
		status int
		body   string
	}{
		{"missing", func(*http.Request) {}, http.StatusUnauthorized, "token is missing"},
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+access) }, http.StatusOK, "a@example.com|"},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: access}) }, http.StatusOK, "a@example.com|"},
		{"refresh token rejected", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+refresh) }, http.StatusUnauthorized, "invalid access token"},
		{"garbage", func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized, "invalid access token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

type failingParser struct{}

func (failingParser) ParseAccessToken(string) (*helpers.Claims, error) {
	return nil, errors.New("expired")
}

func TestAuth_ParserError(t *testing.T) {
	r := newEngine(Auth(failingParser{}))
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer x")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestRealIP(t *testing.T) {
	r := newEngine(RealIP())

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"}, "203.0.113.7"},
		{"x-real-ip", map[string]string{"X-Real-IP": "203.0.113.8"}, "203.0.113.8"},
		{"forwarded left-most", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, "198.51.100.1"},
		{"invalid header falls back", map[string]string{"CF-Connecting-IP": "nope"}, "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Contains(t, w.Body.String(), "|"+tt.want+"|")
		})
	}
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestIDMiddleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))
	assert.Contains(t, w.Body.String(), incoming)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
}

func TestKeyFuncsAndAllow(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	c.Set("real_ip", "10.1.2.3")

	assert.Equal(t, "rl:ip:10.1.2.3", KeyByIP()(c))
	assert.Equal(t, "rl:user:anon:ip:10.1.2.3", KeyByEmail()(c))
	assert.True(t, AllowPrivateIP()(c))

	c.Set(CtxEmailKey, "a@example.com")
	assert.Equal(t, "rl:user:a@example.com", KeyByEmail()(c))

	c.Set("real_ip", "203.0.113.9")
	assert.False(t, AllowPrivateIP()(c))
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := newEngine(RateLimit(nil, 1, time.Minute, KeyByIP(), nil))
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

type recordedRequest struct {
	route  string
	status int
}

type fakeRecorder struct{ reqs []recordedRequest }

func (f *fakeRecorder) RecordAuth(string, string)   {}
func (f *fakeRecorder) RecordUserOp(string, string) {}
func (f *fakeRecorder) RecordHTTPRequest(route string, status int, _ time.Duration) {
	f.reqs = append(f.reqs, recordedRequest{route, status})
}

func TestMetrics(t *testing.T) {
	rec := &fakeRecorder{}
	r := newEngine(Metrics(rec))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Len(t, rec.reqs, 1)
	assert.Equal(t, recordedRequest{"/whoami", http.StatusOK}, rec.reqs[0])
}
