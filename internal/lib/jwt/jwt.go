package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid access token")

// Claims is what the portal's auth layer puts into an access token.
type Claims struct {
	UserID int64
	Email  string
	Admin  bool
}

// NewAccessToken signs an HS256 access token with the same claim layout the
// auth service issues.
func NewAccessToken(c Claims, secret string, ttl time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)

	claims["uid"] = c.UserID
	claims["email"] = c.Email
	claims["adm"] = c.Admin
	claims["typ"] = "access"
	claims["exp"] = time.Now().Add(ttl).Unix()

	return token.SignedString([]byte(secret))
}

func ParseAccessToken(accessToken, secret string) (Claims, error) {
	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, fmt.Errorf("%w: invalid claims", ErrInvalidToken)
	}

	if typ, ok := claims["typ"].(string); !ok || typ != "access" {
		return Claims{}, fmt.Errorf("%w: expected access token, got %v", ErrInvalidToken, claims["typ"])
	}

	uid, ok := claims["uid"].(float64)
	if !ok {
		return Claims{}, fmt.Errorf("%w: uid claim missing", ErrInvalidToken)
	}

	email, _ := claims["email"].(string)
	admin, _ := claims["adm"].(bool)

	return Claims{UserID: int64(uid), Email: email, Admin: admin}, nil
}
