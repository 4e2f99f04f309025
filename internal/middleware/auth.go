package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/14kear/hoa-portal/internal/entity"
	"github.com/14kear/hoa-portal/internal/lib/jwt"
	"github.com/14kear/hoa-portal/internal/lib/logger/sl"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey  = "userID"
	isAdminKey = "isAdmin"
)

type AuthMiddleware struct {
	log       *slog.Logger
	appSecret string
}

func NewAuthMiddleware(log *slog.Logger, appSecret string) *AuthMiddleware {
	return &AuthMiddleware{log: log, appSecret: appSecret}
}

// Required rejects requests without a valid access token.
func (m *AuthMiddleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// Optional resolves the voter when a token is present and lets anonymous
// requests through. A present but invalid token is still rejected.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if !m.authenticate(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// AdminOnly must run after Required.
func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(isAdminKey) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin rights required"})
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) bool {
	accessToken := extractTokenFromHeader(c.GetHeader("Authorization"))
	if accessToken == "" {
		return false
	}

	claims, err := jwt.ParseAccessToken(accessToken, m.appSecret)
	if err != nil {
		m.log.Debug("token rejected", sl.Err(err))
		return false
	}

	c.Set(userIDKey, claims.UserID)
	c.Set(isAdminKey, claims.Admin)
	return true
}

// Voter returns the identity resolved for this request.
func Voter(c *gin.Context) entity.Identity {
	if id, ok := c.Get(userIDKey); ok {
		if userID, ok := id.(int64); ok {
			return entity.KnownVoter(userID)
		}
	}
	return entity.AnonymousVoter()
}

func UserID(c *gin.Context) (int64, bool) {
	return Voter(c).UserID()
}

func extractTokenFromHeader(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
