package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/14kear/hoa-portal/internal/lib/jwt"
	"github.com/14kear/hoa-portal/internal/lib/logger/sl"
	"github.com/14kear/hoa-portal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	m := NewAuthMiddleware(utils.NewDiscard(), testSecret)
	whoami := func(c *gin.Context) {
		userID, known := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "known": known})
	}

	r := gin.New()
	r.GET("/optional", m.Optional(), whoami)
	r.GET("/required", m.Required(), whoami)
	r.GET("/admin", m.Required(), m.AdminOnly(), whoami)
	return r
}

func token(t *testing.T, claims jwt.Claims, secret string, ttl time.Duration) string {
	t.Helper()
	tok, err := jwt.NewAccessToken(claims, secret, ttl)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newTestRouter()

	voter := token(t, jwt.Claims{UserID: 7, Email: "owner@hoa.test"}, testSecret, time.Hour)
	admin := token(t, jwt.Claims{UserID: 1, Admin: true}, testSecret, time.Hour)
	forged := token(t, jwt.Claims{UserID: 7}, "other-secret", time.Hour)
	expired := token(t, jwt.Claims{UserID: 7}, testSecret, -time.Minute)

	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{name: "optional without token", path: "/optional", status: http.StatusOK, body: `{"known":false,"user_id":0}`},
		{name: "optional with token", path: "/optional", header: voter, status: http.StatusOK, body: `{"known":true,"user_id":7}`},
		{name: "optional with forged token", path: "/optional", header: forged, status: http.StatusUnauthorized},
		{name: "required without token", path: "/required", status: http.StatusUnauthorized},
		{name: "required with expired token", path: "/required", header: expired, status: http.StatusUnauthorized},
		{name: "required with malformed header", path: "/required", header: "Token abc", status: http.StatusUnauthorized},
		{name: "required with token", path: "/required", header: voter, status: http.StatusOK},
		{name: "admin route as voter", path: "/admin", header: voter, status: http.StatusForbidden},
		{name: "admin route as admin", path: "/admin", header: admin, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.path, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestLogger(utils.NewDiscard()))
	r.GET("/ping", func(c *gin.Context) {
		id, _ := sl.RequestID(c.Request.Context())
		c.Header("X-Seen-Request-ID", id)
		c.Status(http.StatusNoContent)
	})

	w := do(r, "/ping", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Header().Get("X-Seen-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "fixed-id", w.Header().Get("X-Seen-Request-ID"))
}
