package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Session cookie names. The secure variant is used when the deployment
// serves over HTTPS; request handling accepts either.
const (
	SessionCookieName       = "portal_session"
	SecureSessionCookieName = "__Secure-portal_session"
)

// NewSessionToken generates an opaque session token.
func NewSessionToken() string {
	return uuid.New().String()
}

// CookieConfig carries the deployment-dependent cookie settings
type CookieConfig struct {
	Secure bool
	MaxAge int
}

// CookieName returns the cookie name for the deployment mode.
func (c CookieConfig) CookieName() string {
	if c.Secure {
		return SecureSessionCookieName
	}
	return SessionCookieName
}

// SetSessionCookie writes the session cookie: HTTP-only, SameSite=Lax, path /.
func SetSessionCookie(c *gin.Context, cfg CookieConfig, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName(), token, cfg.MaxAge, "/", "", cfg.Secure, true)
}

// ClearSessionCookie expires both cookie variants.
func ClearSessionCookie(c *gin.Context, cfg CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", cfg.Secure, true)
	c.SetCookie(SecureSessionCookieName, "", -1, "/", "", true, true)
}

// SessionTokenFromRequest extracts the session token from either cookie
// variant. Presence of either name counts as an authentication attempt.
func SessionTokenFromRequest(c *gin.Context) (string, bool) {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		return token, true
	}
	if token, err := c.Cookie(SecureSessionCookieName); err == nil && token != "" {
		return token, true
	}
	return "", false
}
