// Package ui - panel view renderer
// Renders the page, and the public table or toast regions alone, from a
// controller snapshot. Every render produces complete markup for its target.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/aethra/equivalencias/internal/models"
	"github.com/aethra/equivalencias/internal/notify"
	"github.com/aethra/equivalencias/internal/panel"
)

// JustificationLimit is how many characters of a justification the public
// table shows before truncating
const JustificationLimit = 100

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer renders panel markup
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("panel").Funcs(template.FuncMap{
		"truncate":  Truncate,
		"truncated": func(s string) bool { return utf8.RuneCountInString(s) > JustificationLimit },
		"itoa":      func(id int64) string { return strconv.FormatInt(id, 10) },
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// PageData contains all data needed to render a page
type PageData struct {
	State   panel.State
	Toasts  []notify.Toast
	Headers []Header
	Title   string
}

// Header is one sortable column of the public table
type Header struct {
	Index  int
	Key    string
	Label  string
	Active bool
	Arrow  string
}

// NewPageData builds the render input from a snapshot and the active toasts
func NewPageData(state panel.State, toasts []notify.Toast) PageData {
	headers := make([]Header, 0, len(models.Columns))
	for i, col := range models.Columns {
		h := Header{Index: i, Key: col.Key(), Label: col.Label()}
		if state.Sorted && state.SortColumn == col {
			h.Active = true
			h.Arrow = "▲"
			if state.SortDirection == panel.Desc {
				h.Arrow = "▼"
			}
		}
		headers = append(headers, h)
	}
	return PageData{
		State:   state,
		Toasts:  toasts,
		Headers: headers,
		Title:   "Equivalências de Disciplinas",
	}
}

// RenderPage writes the full document
func (r *Renderer) RenderPage(w io.Writer, data PageData) error {
	return r.execute(w, "page", data)
}

// RenderPublicTable writes only the public table region
func (r *Renderer) RenderPublicTable(w io.Writer, data PageData) error {
	return r.execute(w, "public_table", data)
}

// RenderToasts writes only the toast stack
func (r *Renderer) RenderToasts(w io.Writer, data PageData) error {
	return r.execute(w, "toasts", data)
}

// execute renders into a buffer first so a template failure never leaves
// half-written markup behind
func (r *Renderer) execute(w io.Writer, name string, data PageData) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Truncate cuts s to JustificationLimit characters and appends "..."
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= JustificationLimit {
		return s
	}
	runes := []rune(s)
	return string(runes[:JustificationLimit]) + "..."
}
