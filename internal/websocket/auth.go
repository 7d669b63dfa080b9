package websocket

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strings"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/utils"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/utils/types"
	"github.com/redis/go-redis/v9"
)

// AuthenticatorFunc resolves an HTTP upgrade request to a user identity.
// Returning an error fails the handshake closed before the upgrade.
type AuthenticatorFunc func(r *http.Request) (userID string, err error)

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func JWTWebSocketAuth(publicKey *rsa.PublicKey, rdb *redis.Client) AuthenticatorFunc {
	return func(r *http.Request) (string, error) {
		token := getTokenFromRequest(r)
		if token == "" {
			return "", &AuthError{Message: "no credential presented"}
		}

		claims, err := utils.ParseAndVerifySign(token, publicKey)
		if err != nil {
			return "", &AuthError{Message: "invalid or expired token"}
		}

		// The session must still exist in Redis; a revoked login cannot
		// open a live channel.
		sessionKey := fmt.Sprintf("session:%s:%s", claims.Sub, claims.Jti)
		session, cacheErr := utils.GetCacheData[types.Session](context.Background(), rdb, sessionKey)
		if cacheErr != nil || session == nil {
			return "", &AuthError{Message: "session not found or revoked"}
		}

		return claims.Sub, nil
	}
}

func getTokenFromRequest(r *http.Request) string {
	// Option 1: Authorization header
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// Option 2: Query parameter
	token := r.URL.Query().Get("token")
	if token != "" {
		return token
	}

	// Option 3: Cookie
	cookie, err := r.Cookie("access_token")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}
