package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propchat/relay/internal/config"
	"github.com/propchat/relay/internal/database"
	"github.com/propchat/relay/internal/testutil"
)

var testSigningKey = []byte("test-signing-key")

func signedToken(t *testing.T, key []byte, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(key)
	require.NoError(t, err, "expected token to sign")
	return tokenString
}

func newAuthTestApp(t *testing.T) *RelayApp {
	return NewRelayApp(http.NewServeMux(), testutil.TestLogger(t), nil, &database.MockMessageRepository{}, &config.Config{
		ServerAddr:     ":4000",
		AllowedOrigins: []string{"*"},
		SigningKey:     testSigningKey,
	})
}

func Test_extractUserIdFromToken(t *testing.T) {
	app := newAuthTestApp(t)

	t.Run("valid token from cookie", func(t *testing.T) {
		tokenString := signedToken(t, testSigningKey, jwt.MapClaims{
			userIdClaim: 42,
			"exp":       time.Now().Add(time.Hour).Unix(),
		})

		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.AddCookie(&http.Cookie{Name: tokenCookieKey, Value: tokenString})

		userId, err := app.extractUserIdFromToken(req)
		assert.NoError(t, err, "expected token to verify")
		assert.Equal(t, 42, userId, "expected user id from claim")
	})

	t.Run("valid token from query parameter", func(t *testing.T) {
		tokenString := signedToken(t, testSigningKey, jwt.MapClaims{userIdClaim: 7})

		req := httptest.NewRequest(http.MethodGet, "/ws?token="+tokenString, nil)

		userId, err := app.extractUserIdFromToken(req)
		assert.NoError(t, err, "expected token to verify")
		assert.Equal(t, 7, userId, "expected user id from claim")
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)

		_, err := app.extractUserIdFromToken(req)
		assert.Error(t, err, "expected error for missing token")
	})

	t.Run("token signed with wrong key", func(t *testing.T) {
		tokenString := signedToken(t, []byte("other-key"), jwt.MapClaims{userIdClaim: 42})

		req := httptest.NewRequest(http.MethodGet, "/ws?token="+tokenString, nil)

		_, err := app.extractUserIdFromToken(req)
		assert.Error(t, err, "expected error for bad signature")
	})

	t.Run("missing user id claim", func(t *testing.T) {
		tokenString := signedToken(t, testSigningKey, jwt.MapClaims{"sub": "x"})

		req := httptest.NewRequest(http.MethodGet, "/ws?token="+tokenString, nil)

		_, err := app.extractUserIdFromToken(req)
		assert.Error(t, err, "expected error for missing claim")
	})
}

func Test_serveWs_requiresTokenWhenKeyConfigured(t *testing.T) {
	app := newAuthTestApp(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	app.serveWs(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code, "expected status code to be 401")
}
