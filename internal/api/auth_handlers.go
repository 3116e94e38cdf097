// Package api - Panel session cookie and login handlers
package api

import (
	"net/http"

	"github.com/aethra/equivalencias/internal/auth"
	"github.com/gin-gonic/gin"
)

const sessionKey = "panel_session"

// CookieConfig describes the panel session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// SessionMiddleware resolves the signed session cookie to a live session,
// creating and bootstrapping a new one when the cookie is missing, invalid
// or points at an evicted session
func (h *PanelHandler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := h.lookupSession(c)
		if sess == nil {
			created, err := h.sessions.Create()
			if err != nil {
				h.log.Error("create panel session failed", "error", err)
				h.abortWithError(c, err)
				return
			}
			token, err := h.tokens.Issue(created.ID)
			if err != nil {
				h.sessions.Remove(created.ID)
				h.log.Error("issue session token failed", "error", err)
				h.abortWithError(c, err)
				return
			}
			h.setSessionCookie(c, token)
			h.log.Debug("panel session created", "session", created.ID.String())
			sess = created
		}

		sess.Bootstrap(c.Request.Context())
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func (h *PanelHandler) lookupSession(c *gin.Context) *Session {
	raw, err := c.Cookie(h.cookie.Name)
	if err != nil || raw == "" {
		return nil
	}
	claims, err := h.tokens.ValidateToken(raw)
	if err != nil {
		h.log.Debug("rejected session cookie", "error", err)
		return nil
	}
	sess, ok := h.sessions.Get(claims.SessionID)
	if !ok {
		return nil
	}
	return sess
}

func (h *PanelHandler) setSessionCookie(c *gin.Context, token *auth.Token) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token.Value, int(h.tokens.TTL().Seconds()), "/", "", h.cookie.Secure, true)
}

func currentSession(c *gin.Context) *Session {
	return c.MustGet(sessionKey).(*Session)
}

// =============================================================================
// LOGIN
// =============================================================================

// OpenLogin shows the login dialog
// GET|POST /login/open
func (h *PanelHandler) OpenLogin(c *gin.Context) {
	currentSession(c).Controller.ShowLogin()
	redirectHome(c)
}

// CloseLogin hides the login dialog
// GET|POST /login/close
func (h *PanelHandler) CloseLogin(c *gin.Context) {
	currentSession(c).Controller.HideLogin()
	redirectHome(c)
}

// Login forwards the credentials to the backend
// POST /login
func (h *PanelHandler) Login(c *gin.Context) {
	ctrl := currentSession(c).Controller
	_ = ctrl.Login(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	redirectHome(c)
}

// Logout ends the backend session
// POST /logout
func (h *PanelHandler) Logout(c *gin.Context) {
	_ = currentSession(c).Controller.Logout(c.Request.Context())
	redirectHome(c)
}
