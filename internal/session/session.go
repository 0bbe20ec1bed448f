// Package session issues and parses the signed session credential carried in
// the "jwt" cookie.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "jwt"
	TTL        = 7 * 24 * time.Hour
)

var ErrInvalid = errors.New("invalid session token")

func Issue(userID uint, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(TTL).Unix(),
		"typ": "session",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// Parse validates the cookie value and returns the user ID it is bound to.
func Parse(tokenStr string, secret []byte) (uint, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != "session" {
		return 0, ErrInvalid
	}
	// sub round-trips through JSON as float64
	switch v := claims["sub"].(type) {
	case float64:
		return uint(v), nil
	case int:
		return uint(v), nil
	case int64:
		return uint(v), nil
	default:
		return 0, ErrInvalid
	}
}
