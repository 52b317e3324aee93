package middleware

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/pkg/auth"
)

// SessionCookieName holds the signed session token
const SessionCookieName = "sr_session"

// IdentityKey is the gin context key of the request's auth.Identity
const IdentityKey = "identity"

// LoginPath is where anonymous requests to gated pages are sent
const LoginPath = "/login/"

// SessionAuthenticator resolves a session cookie value to the identity it belongs to
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

// AuthMiddleware loads the session identity and guards pages that need a login
type AuthMiddleware struct {
	authenticator SessionAuthenticator
	secureCookies bool
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authenticator SessionAuthenticator, secureCookies bool) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		secureCookies: secureCookies,
	}
}

// LoadIdentity resolves the session cookie, if any, and stores the identity in
// both the gin context and the request context. A bad, expired or ended session
// has its cookie cleared.
func (m *AuthMiddleware) LoadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		identity, err := m.authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			m.ClearSession(c)
			c.Next()
			return
		}

		c.Set(IdentityKey, identity)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// RequireLogin redirects anonymous requests to the login page with a next parameter
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentIdentity(c).Authenticated() {
			c.Next()
			return
		}

		c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// StartSession writes the session cookie for a freshly issued token
func (m *AuthMiddleware) StartSession(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", m.secureCookies, true)
}

// ClearSession expires the session cookie
func (m *AuthMiddleware) ClearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", m.secureCookies, true)
}

// CurrentIdentity returns the identity loaded for this request, or the anonymous identity
func CurrentIdentity(c *gin.Context) auth.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if identity, ok := v.(auth.Identity); ok {
			return identity
		}
	}
	return auth.Identity{}
}

// SafeRedirect returns next when it is a local absolute path, fallback otherwise
func SafeRedirect(next, fallback string) string {
	if next == "" {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" || next[0] != '/' {
		return fallback
	}
	// "//host" and "/\host" are treated as hosts by browsers
	if len(next) > 1 && (next[1] == '/' || next[1] == '\\') {
		return fallback
	}
	return next
}
