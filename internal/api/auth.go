package api

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt"
)

const (
	tokenCookieKey = "token"
	userIdClaim    = "user-id"
)

// extractUserIdFromToken verifies the connection token when a signing key
// is configured. The token is read from the "token" cookie, falling back
// to a "token" query parameter for websocket clients that cannot set
// cookies.
func (s *RelayApp) extractUserIdFromToken(r *http.Request) (int, error) {
	var tokenString string
	if cookie, err := r.Cookie(tokenCookieKey); err == nil {
		tokenString = cookie.Value
	} else {
		tokenString = r.URL.Query().Get(tokenCookieKey)
	}

	if tokenString == "" {
		return 0, fmt.Errorf("missing token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return 0, fmt.Errorf("verify token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid token claims")
	}

	userId, ok := claims[userIdClaim].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid user id claim")
	}

	return int(userId), nil
}
