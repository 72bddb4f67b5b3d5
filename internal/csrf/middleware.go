package csrf

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mahmoudsallem/Backend/internal/dto"
)

const (
	// CookieName carries the session id the token is bound to.
	CookieName = "csrf_session"
	// HeaderName is the canonical token header. HeaderNameAlt is accepted
	// too; clients disagree on the spelling.
	HeaderName    = "X-CSRF-Token"
	HeaderNameAlt = "X-CSRFToken"
)

// Protection wires token issuance and enforcement together. When disabled
// it still issues tokens but lets every request through, which is how the
// handler tests and local runs without a browser operate.
type Protection struct {
	sessions  SessionStore
	tokens    *TokenManager
	enabled   bool
	cookieTTL time.Duration
}

// NewProtection returns CSRF protection over the given stores.
func NewProtection(sessions SessionStore, tokens *TokenManager, enabled bool, cookieTTL time.Duration) *Protection {
	if cookieTTL <= 0 {
		cookieTTL = defaultSessionTTL
	}
	return &Protection{sessions: sessions, tokens: tokens, enabled: enabled, cookieTTL: cookieTTL}
}

// TokenHandler godoc
// @Summary      Issue a CSRF token
// @Description  Returns a token to echo back in X-CSRF-Token on mutating requests. Sets the session cookie on first contact.
// @Tags         csrf
// @Produce      json
// @Success      200  {object}  dto.CSRFTokenResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /csrf-token [get]
func (p *Protection) TokenHandler(c *gin.Context) {
	ctx := c.Request.Context()

	sid, _ := c.Cookie(CookieName)
	if sid != "" {
		ok, err := p.sessions.Exists(ctx, sid)
		if err != nil {
			abortInternal(c)
			return
		}
		if !ok {
			sid = ""
		}
	}
	if sid == "" {
		created, err := p.sessions.Create(ctx)
		if err != nil {
			abortInternal(c)
			return
		}
		sid = created
		c.SetCookie(CookieName, sid, int(p.cookieTTL.Seconds()), "/", "", false, true)
	}

	token, err := p.tokens.Issue(sid)
	if err != nil {
		abortInternal(c)
		return
	}
	c.JSON(http.StatusOK, dto.CSRFTokenResponse{CSRFToken: token})
}

// Middleware rejects state-changing requests without a valid token bound
// to a live session. It fails closed before any handler runs.
func (p *Protection) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !p.enabled || isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		sid, err := c.Cookie(CookieName)
		if err != nil || sid == "" {
			abortForbidden(c, "csrf session cookie missing")
			return
		}
		token := c.GetHeader(HeaderName)
		if token == "" {
			token = c.GetHeader(HeaderNameAlt)
		}
		if token == "" {
			abortForbidden(c, "csrf token missing")
			return
		}

		ok, err := p.sessions.Exists(c.Request.Context(), sid)
		if err != nil {
			abortInternal(c)
			return
		}
		if !ok {
			abortForbidden(c, "session expired")
			return
		}
		if err := p.tokens.Verify(token, sid); err != nil {
			if errors.Is(err, ErrTokenExpired) {
				abortForbidden(c, "csrf token expired")
				return
			}
			abortForbidden(c, "csrf token invalid")
			return
		}
		c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func abortForbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
		Error:   dto.ErrCodeForbidden,
		Message: msg,
	})
}

func abortInternal(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   dto.ErrCodeInternal,
		Message: "internal server error",
	})
}
