// Package api contains the HTTP handlers of the equivalence panel
package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aethra/equivalencias/internal/auth"
	apperrors "github.com/aethra/equivalencias/internal/errors"
	"github.com/aethra/equivalencias/internal/logger"
	"github.com/aethra/equivalencias/internal/models"
	"github.com/aethra/equivalencias/internal/panel"
	"github.com/aethra/equivalencias/internal/ui"
	"github.com/gin-gonic/gin"
)

// PanelHandler serves the panel pages and actions
type PanelHandler struct {
	sessions *SessionRegistry
	tokens   *auth.JWTService
	renderer *ui.Renderer
	cookie   CookieConfig
	log      *logger.Logger
}

// NewPanelHandler creates a new panel handler
func NewPanelHandler(sessions *SessionRegistry, tokens *auth.JWTService, renderer *ui.Renderer, cookie CookieConfig, log *logger.Logger) *PanelHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PanelHandler{
		sessions: sessions,
		tokens:   tokens,
		renderer: renderer,
		cookie:   cookie,
		log:      log,
	}
}

// Health reports liveness
// GET /healthz
func (h *PanelHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": h.sessions.Len(),
	})
}

// NotFound answers unknown routes
func (h *PanelHandler) NotFound(c *gin.Context) {
	h.abortWithError(c, apperrors.NewNotFoundError("route "+c.Request.URL.Path))
}

// =============================================================================
// PAGE
// =============================================================================

// Index renders the whole panel
// GET /
func (h *PanelHandler) Index(c *gin.Context) {
	h.renderPage(c, currentSession(c))
}

// Search filters the public table
// GET /search?q=
func (h *PanelHandler) Search(c *gin.Context) {
	sess := currentSession(c)
	sess.Controller.Search(c.Query("q"))

	if wantsFragment(c) {
		h.renderPublicTable(c, sess)
		return
	}
	h.renderPage(c, sess)
}

// Sort sorts the public table by a column index or key
// POST /sort/:column
func (h *PanelHandler) Sort(c *gin.Context) {
	col, err := models.ParseColumn(c.Param("column"))
	if err != nil {
		h.abortWithError(c, apperrors.NewValidationError("column", err.Error()))
		return
	}

	sess := currentSession(c)
	sess.Controller.SortBy(col)

	if wantsFragment(c) {
		h.renderPublicTable(c, sess)
		return
	}
	redirectHome(c)
}

// DismissToast removes a toast before it expires
// POST /toasts/:id/dismiss
func (h *PanelHandler) DismissToast(c *gin.Context) {
	sess := currentSession(c)
	sess.Toasts.Dismiss(c.Param("id"))

	if wantsFragment(c) {
		h.renderToasts(c, sess)
		return
	}
	redirectHome(c)
}

// =============================================================================
// RECORDS
// =============================================================================

// Submit creates a record or updates the one being edited
// POST /equivalencias
func (h *PanelHandler) Submit(c *gin.Context) {
	var form models.Form
	if err := c.ShouldBind(&form); err != nil {
		h.abortWithError(c, apperrors.NewValidationError("form", err.Error()))
		return
	}

	_ = currentSession(c).Controller.Submit(c.Request.Context(), form)
	redirectHome(c)
}

// BeginEdit loads a record into the form
// POST /equivalencias/:id/edit
func (h *PanelHandler) BeginEdit(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	currentSession(c).Controller.BeginEdit(id)
	redirectHome(c)
}

// CancelEdit returns the form to create mode
// POST /edit/cancel
func (h *PanelHandler) CancelEdit(c *gin.Context) {
	currentSession(c).Controller.CancelEdit()
	redirectHome(c)
}

// ConfirmDelete renders the page with the delete confirmation open
// GET /equivalencias/:id/delete
func (h *PanelHandler) ConfirmDelete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	sess := currentSession(c)
	sess.Controller.RequestDelete(id)
	h.renderPage(c, sess)
}

// Delete removes a record when the confirmation form says so
// POST /equivalencias/:id/delete
func (h *PanelHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	confirmed := panel.ConfirmFunc(func(string) bool {
		return c.PostForm("confirm") == "true"
	})
	_, _ = currentSession(c).Controller.Delete(c.Request.Context(), id, confirmed)
	redirectHome(c)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *PanelHandler) pageData(sess *Session) ui.PageData {
	return ui.NewPageData(sess.Controller.Snapshot(), sess.Toasts.Active())
}

func (h *PanelHandler) renderPage(c *gin.Context, sess *Session) {
	var buf bytes.Buffer
	if err := h.renderer.RenderPage(&buf, h.pageData(sess)); err != nil {
		h.log.Error("render page failed", "error", err)
		h.abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *PanelHandler) renderPublicTable(c *gin.Context, sess *Session) {
	var buf bytes.Buffer
	if err := h.renderer.RenderPublicTable(&buf, h.pageData(sess)); err != nil {
		h.log.Error("render public table failed", "error", err)
		h.abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *PanelHandler) renderToasts(c *gin.Context, sess *Session) {
	var buf bytes.Buffer
	if err := h.renderer.RenderToasts(&buf, h.pageData(sess)); err != nil {
		h.log.Error("render toasts failed", "error", err)
		h.abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *PanelHandler) abortWithError(c *gin.Context, err error) {
	status, body := apperrors.ToHTTPError(err)
	c.AbortWithStatusJSON(status, body)
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// wantsFragment reports whether the caller swaps a region instead of
// loading a page
func wantsFragment(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true" || c.Query("fragment") == "1"
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("id", fmt.Sprintf("invalid equivalencia id %q", c.Param("id")))
	}
	return id, nil
}
