package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/infra/config"
	"github.com/arklim/social-platform-publishing/internal/usecase"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// SetSessionCookie writes the ephemeral session cookie.
func SetSessionCookie(c *gin.Context, cfg config.SessionSettings, key string) {
	c.SetCookie(cfg.CookieName, key, int(cfg.TTL.Seconds()), "/", "", cfg.CookieSecure, true)
}

// SetRememberCookie writes the durable remember-me cookie carrying the raw token.
func SetRememberCookie(c *gin.Context, cfg config.SessionSettings, rawToken string) {
	c.SetCookie(cfg.RememberCookie, rawToken, int(cfg.RememberTTL.Seconds()), "/", "", cfg.CookieSecure, true)
}

// ClearAuthCookies expires both authentication cookies.
func ClearAuthCookies(c *gin.Context, cfg config.SessionSettings) {
	c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.CookieSecure, true)
	c.SetCookie(cfg.RememberCookie, "", -1, "/", "", cfg.CookieSecure, true)
}

// RequireSession resolves the login session from the session cookie. When the
// cookie is absent it silently redeems a remember-me cookie into a fresh
// session before giving up.
func RequireSession(auth *usecase.AuthService, cfg config.SessionSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := resolveSession(c, auth, cfg)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		c.Set(SessionKey, session)
		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = session.UserID
		}

		c.Next()
	}
}

func resolveSession(c *gin.Context, auth *usecase.AuthService, cfg config.SessionSettings) *domain.Session {
	if key, err := c.Cookie(cfg.CookieName); err == nil && key != "" {
		session, err := auth.Session(c.Request.Context(), key)
		if err == nil {
			return session
		}
		if !errors.Is(err, usecase.ErrSessionNotFound) {
			return nil
		}
	}

	raw, err := c.Cookie(cfg.RememberCookie)
	if err != nil || raw == "" {
		return nil
	}

	result, err := auth.Redeem(c.Request.Context(), raw)
	if err != nil {
		// stale cookie, drop it so the client stops presenting it
		c.SetCookie(cfg.RememberCookie, "", -1, "/", "", cfg.CookieSecure, true)
		return nil
	}

	SetSessionCookie(c, cfg, result.Session.Key)
	return &result.Session
}

// GetSession retrieves the resolved session from the request context.
func GetSession(c *gin.Context) *domain.Session {
	if value, exists := c.Get(SessionKey); exists {
		if session, ok := value.(*domain.Session); ok {
			return session
		}
	}
	return nil
}

// GetActor derives the acting principal from the resolved session.
func GetActor(c *gin.Context) (domain.ActorContext, bool) {
	session := GetSession(c)
	if session == nil {
		return domain.ActorContext{}, false
	}
	return domain.ActorContext{UserID: session.UserID, Role: session.Role}, true
}
