package middlewares

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthCookieName is the session cookie issued after login.
const AuthCookieName = "jst_auth"

// authTokenVersion is baked into the cookie digest; bump it to invalidate
// every outstanding session at once.
const authTokenVersion = "v1"

// AuthGate validates the single configured operator credential and the
// session cookie derived from it.
type AuthGate struct {
	cookieName string
	token      string
	username   string
	password   string
}

// NewAuthGate creates a new AuthGate for the configured credential pair.
func NewAuthGate(username, password string) *AuthGate {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s", username, password, authTokenVersion)))
	return &AuthGate{
		cookieName: AuthCookieName,
		token:      hex.EncodeToString(sum[:]),
		username:   username,
		password:   password,
	}
}

// CookieName returns the session cookie name.
func (g *AuthGate) CookieName() string { return g.cookieName }

// CookieValue returns the session cookie value issued on login.
func (g *AuthGate) CookieValue() string { return g.token }

// IsValidLogin checks a submitted credential pair.
func (g *AuthGate) IsValidLogin(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(g.username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(g.password))
	return u == 1 && p == 1
}

// IsAuthenticated checks the request's session cookie.
func (g *AuthGate) IsAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie(g.cookieName)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(g.token)) == 1
}

// Middleware rejects requests without a valid session cookie.
func (g *AuthGate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.IsAuthenticated(c.Request) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
