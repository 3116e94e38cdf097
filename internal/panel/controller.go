// Package panel implements the equivalence admin panel controller.
//
// A Controller owns everything one browser session sees: the cached
// collection, the public view derived from it, the edit form and its
// cursor, the sort directions and the login state. Its mutex is held only
// between backend calls, so overlapping requests interleave at network
// boundaries and the last response to arrive wins.
package panel

import (
	"context"
	"slices"
	"sync"

	apperrors "github.com/aethra/equivalencias/internal/errors"
	"github.com/aethra/equivalencias/internal/logger"
	"github.com/aethra/equivalencias/internal/models"
	"github.com/aethra/equivalencias/internal/notify"
	"golang.org/x/text/language"
)

// API is the backend contract the controller consumes
type API interface {
	CheckAuth(ctx context.Context) (models.Session, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context) error
	List(ctx context.Context) ([]models.Equivalencia, error)
	Create(ctx context.Context, form models.Form) error
	Update(ctx context.Context, id int64, form models.Form) error
	Delete(ctx context.Context, id int64) error
}

// Confirmer guards destructive actions
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Controller is the admin panel state and its operations
type Controller struct {
	api    API
	notes  notify.Notifier
	sorter *Sorter
	log    *logger.Logger

	mu            sync.Mutex
	cache         []models.Equivalencia
	view          []models.Equivalencia
	query         string
	sorted        bool
	sortCol       models.Column
	sortDir       Direction
	form          models.Form
	editID        *int64
	session       models.Session
	adminVisible  bool
	loginOpen     bool
	pendingDelete *int64
	loading       int
}

// New creates a controller with an empty cache
func New(api API, notes notify.Notifier, locale language.Tag, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		api:    api,
		notes:  notes,
		sorter: NewSorter(locale),
		log:    log,
		cache:  []models.Equivalencia{},
		view:   []models.Equivalencia{},
	}
}

// Init loads the collection and then checks for an existing backend session
func (c *Controller) Init(ctx context.Context) {
	_ = c.List(ctx)
	c.CheckAuth(ctx)
}

// =============================================================================
// SESSION
// =============================================================================

// CheckAuth asks the backend whether a session exists. Absence of a session
// is normal, so failures are only logged.
func (c *Controller) CheckAuth(ctx context.Context) {
	session, err := c.api.CheckAuth(ctx)
	if err != nil {
		c.log.Warn("check auth failed", "error", err)
		return
	}
	if !session.Authenticated {
		return
	}

	c.mu.Lock()
	c.session = session
	c.adminVisible = true
	c.mu.Unlock()

	c.refresh(ctx, true)
}

// Login authenticates against the backend. Empty fields are rejected
// without a network call.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		c.notes.Notify(notify.Warning, msgFillAllFields)
		return apperrors.NewValidationError("credentials", msgFillAllFields)
	}

	accepted, err := c.api.Login(ctx, username, password)
	if err != nil {
		c.log.Error("login failed", "username", username, "error", err)
		c.notes.Notify(notify.Error, apperrors.UserMessage(err, msgLoginFailed, msgLoginConnection))
		return err
	}

	c.mu.Lock()
	c.session = models.Session{Authenticated: true, Username: accepted}
	c.adminVisible = true
	c.loginOpen = false
	c.mu.Unlock()
	c.notes.Notify(notify.Success, msgLoginOK)

	c.refresh(ctx, true)
	return nil
}

// Logout ends the backend session and hides the admin UI whatever the outcome
func (c *Controller) Logout(ctx context.Context) error {
	err := c.api.Logout(ctx)
	if err != nil {
		c.log.Error("logout failed", "error", err)
	}

	c.mu.Lock()
	c.session = models.Session{}
	c.adminVisible = false
	c.pendingDelete = nil
	c.resetFormLocked()
	c.mu.Unlock()

	if !apperrors.IsTransport(err) {
		c.notes.Notify(notify.Info, msgLogoutOK)
	}
	return err
}

// ShowLogin opens the login dialog
func (c *Controller) ShowLogin() {
	c.mu.Lock()
	c.loginOpen = true
	c.mu.Unlock()
}

// HideLogin closes the login dialog
func (c *Controller) HideLogin() {
	c.mu.Lock()
	c.loginOpen = false
	c.mu.Unlock()
}

// =============================================================================
// RECORDS
// =============================================================================

// List replaces the cache with the backend collection and resets the public
// view to it. On failure the previous cache is kept.
func (c *Controller) List(ctx context.Context) error {
	return c.refresh(ctx, false)
}

func (c *Controller) refresh(ctx context.Context, quiet bool) error {
	c.setLoading(true)
	defer c.setLoading(false)

	records, err := c.api.List(ctx)
	if err != nil {
		c.log.Error("load equivalencias failed", "error", err)
		if !quiet {
			c.notes.Notify(notify.Error, apperrors.UserMessage(err, msgLoadFailed, msgLoadConnection))
		}
		return err
	}

	c.mu.Lock()
	c.cache = records
	c.view = slices.Clone(records)
	c.sorted = false
	c.mu.Unlock()

	c.log.Debug("cache replaced", "records", len(records))
	return nil
}

// Submit creates a record, or updates the one under the edit cursor.
// The form is kept on failure so the user can retry.
func (c *Controller) Submit(ctx context.Context, form models.Form) error {
	c.mu.Lock()
	c.form = form
	var editID *int64
	if c.editID != nil {
		id := *c.editID
		editID = &id
	}
	c.mu.Unlock()

	var err error
	if editID == nil {
		err = c.api.Create(ctx, form)
	} else {
		err = c.api.Update(ctx, *editID, form)
	}
	if err != nil {
		c.log.Error("save equivalencia failed", "edit_id", editID, "error", err)
		c.notes.Notify(notify.Error, apperrors.UserMessage(err, msgSaveFailed, msgSaveConnection))
		return err
	}

	if editID == nil {
		c.notes.Notify(notify.Success, msgCreated)
	} else {
		c.notes.Notify(notify.Success, msgUpdated)
	}

	c.mu.Lock()
	c.resetFormLocked()
	c.mu.Unlock()

	_ = c.List(ctx)
	return nil
}

// RequestDelete marks a cached record as awaiting confirmation
func (c *Controller) RequestDelete(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.findLocked(id); !ok {
		return false
	}
	c.pendingDelete = &id
	return true
}

// CancelDelete drops a pending confirmation
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	c.pendingDelete = nil
	c.mu.Unlock()
}

// Delete removes a record after the confirmer agrees. A declined
// confirmation sends nothing and returns (false, nil).
func (c *Controller) Delete(ctx context.Context, id int64, confirmer Confirmer) (bool, error) {
	c.CancelDelete()

	if confirmer == nil || !confirmer.Confirm(ConfirmDeletePrompt) {
		return false, nil
	}

	if err := c.api.Delete(ctx, id); err != nil {
		c.log.Error("delete equivalencia failed", "id", id, "error", err)
		c.notes.Notify(notify.Error, apperrors.UserMessage(err, msgDeleteFailed, msgDeleteConnection))
		return true, err
	}

	c.notes.Notify(notify.Success, msgDeleted)
	_ = c.List(ctx)
	return true, nil
}

// BeginEdit loads a cached record into the form. Unknown ids are ignored.
func (c *Controller) BeginEdit(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.findLocked(id)
	if !ok {
		return false
	}
	c.form = rec.Form()
	c.editID = &id
	return true
}

// CancelEdit resets the form back to create mode
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	c.resetFormLocked()
	c.mu.Unlock()
}

// =============================================================================
// FILTER AND SORT
// =============================================================================

// Search filters the full cache into the public view
func (c *Controller) Search(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = query
	c.view = Filter(c.cache, query)
	c.sorted = false
}

// SortBy toggles col's direction and sorts the full cache into the public view
func (c *Controller) SortBy(col models.Column) Direction {
	dir := c.sorter.Toggle(col)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.view = c.sorter.Sort(c.cache, col, dir)
	c.sorted = true
	c.sortCol = col
	c.sortDir = dir
	return dir
}

// =============================================================================
// STATE
// =============================================================================

// State is a read-only snapshot for rendering
type State struct {
	Records       []models.Equivalencia
	All           []models.Equivalencia
	Query         string
	Sorted        bool
	SortColumn    models.Column
	SortDirection Direction
	Form          models.Form
	EditID        int64
	Editing       bool
	Username      string
	AdminVisible  bool
	LoginOpen     bool
	// Loading is best effort: it is only observed by a render that overlaps
	// a backend list call, so most pages never show it.
	Loading       bool
	PendingDelete *models.Equivalencia
}

// Snapshot copies the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Records:       slices.Clone(c.view),
		All:           slices.Clone(c.cache),
		Query:         c.query,
		Sorted:        c.sorted,
		SortColumn:    c.sortCol,
		SortDirection: c.sortDir,
		Form:          c.form,
		Username:      c.session.Username,
		AdminVisible:  c.adminVisible,
		LoginOpen:     c.loginOpen,
		Loading:       c.loading > 0,
	}
	if c.editID != nil {
		s.EditID = *c.editID
		s.Editing = true
	}
	if c.pendingDelete != nil {
		if rec, ok := c.findLocked(*c.pendingDelete); ok {
			s.PendingDelete = &rec
		}
	}
	return s
}

// Cached returns a copy of the in-memory collection
func (c *Controller) Cached() []models.Equivalencia {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.cache)
}

func (c *Controller) findLocked(id int64) (models.Equivalencia, bool) {
	for _, rec := range c.cache {
		if rec.ID == id {
			return rec, true
		}
	}
	return models.Equivalencia{}, false
}

func (c *Controller) resetFormLocked() {
	c.form = models.Form{}
	c.editID = nil
}

func (c *Controller) setLoading(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		c.loading++
	} else if c.loading > 0 {
		c.loading--
	}
}
