// Package models contains the equivalence panel data structures
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// RECORDS
// =============================================================================

// Equivalencia maps a source discipline to an equivalent one
type Equivalencia struct {
	ID              int64      `json:"id"`
	DisciplinaAdm   string     `json:"disciplina_adm"`
	CodigoAdm       string     `json:"codigo_adm"`
	ChAdm           FlexString `json:"ch_adm"`
	DisciplinaEquiv string     `json:"disciplina_equiv"`
	CodigoEquiv     string     `json:"codigo_equiv"`
	CursoEquiv      string     `json:"curso_equiv"`
	ChEquiv         FlexString `json:"ch_equiv"`
	Justificativa   string     `json:"justificativa"`
}

// Field returns the display value of a column
func (e Equivalencia) Field(c Column) string {
	switch c {
	case ColDisciplinaAdm:
		return e.DisciplinaAdm
	case ColCodigoAdm:
		return e.CodigoAdm
	case ColChAdm:
		return e.ChAdm.String()
	case ColDisciplinaEquiv:
		return e.DisciplinaEquiv
	case ColCodigoEquiv:
		return e.CodigoEquiv
	case ColCursoEquiv:
		return e.CursoEquiv
	case ColChEquiv:
		return e.ChEquiv.String()
	case ColJustificativa:
		return e.Justificativa
	}
	return ""
}

// Form converts the record into editable form values
func (e Equivalencia) Form() Form {
	return Form{
		DisciplinaAdm:   e.DisciplinaAdm,
		CodigoAdm:       e.CodigoAdm,
		ChAdm:           e.ChAdm.String(),
		DisciplinaEquiv: e.DisciplinaEquiv,
		CodigoEquiv:     e.CodigoEquiv,
		CursoEquiv:      e.CursoEquiv,
		ChEquiv:         e.ChEquiv.String(),
		Justificativa:   e.Justificativa,
	}
}

// =============================================================================
// COLUMNS
// =============================================================================

// Column identifies one of the eight record fields, in table order
type Column int

const (
	ColDisciplinaAdm Column = iota
	ColCodigoAdm
	ColChAdm
	ColDisciplinaEquiv
	ColCodigoEquiv
	ColCursoEquiv
	ColChEquiv
	ColJustificativa
)

// Columns lists every column in table order
var Columns = []Column{
	ColDisciplinaAdm,
	ColCodigoAdm,
	ColChAdm,
	ColDisciplinaEquiv,
	ColCodigoEquiv,
	ColCursoEquiv,
	ColChEquiv,
	ColJustificativa,
}

// SearchColumns are the columns a search query is matched against
var SearchColumns = []Column{
	ColDisciplinaAdm,
	ColCodigoAdm,
	ColChAdm,
	ColDisciplinaEquiv,
	ColCodigoEquiv,
	ColCursoEquiv,
	ColJustificativa,
}

var columnKeys = [...]string{
	"disciplina_adm",
	"codigo_adm",
	"ch_adm",
	"disciplina_equiv",
	"codigo_equiv",
	"curso_equiv",
	"ch_equiv",
	"justificativa",
}

var columnLabels = [...]string{
	"Disciplina ADM",
	"Código ADM",
	"CH ADM",
	"Disciplina Equivalente",
	"Código Equivalente",
	"Curso",
	"CH Equivalente",
	"Justificativa",
}

// ColumnAt returns the column for a table index
func ColumnAt(index int) (Column, bool) {
	if index < 0 || index >= len(columnKeys) {
		return 0, false
	}
	return Column(index), true
}

// ColumnByKey resolves a JSON field name such as "curso_equiv"
func ColumnByKey(key string) (Column, bool) {
	key = strings.TrimSpace(strings.ToLower(key))
	for i, k := range columnKeys {
		if k == key {
			return Column(i), true
		}
	}
	return 0, false
}

// ParseColumn accepts a table index ("0".."7") or a JSON field name
func ParseColumn(raw string) (Column, error) {
	if index, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		if col, ok := ColumnAt(index); ok {
			return col, nil
		}
	} else if col, ok := ColumnByKey(raw); ok {
		return col, nil
	}
	return 0, fmt.Errorf("unknown column %q", raw)
}

// Key returns the JSON field name
func (c Column) Key() string {
	if c < 0 || int(c) >= len(columnKeys) {
		return ""
	}
	return columnKeys[c]
}

// Label returns the table header text
func (c Column) Label() string {
	if c < 0 || int(c) >= len(columnLabels) {
		return ""
	}
	return columnLabels[c]
}

// =============================================================================
// FORM AND SESSION
// =============================================================================

// Form holds the edit form values. It is also the create/update request body.
type Form struct {
	DisciplinaAdm   string `json:"disciplina_adm" form:"disciplina_adm"`
	CodigoAdm       string `json:"codigo_adm" form:"codigo_adm"`
	ChAdm           string `json:"ch_adm" form:"ch_adm"`
	DisciplinaEquiv string `json:"disciplina_equiv" form:"disciplina_equiv"`
	CodigoEquiv     string `json:"codigo_equiv" form:"codigo_equiv"`
	CursoEquiv      string `json:"curso_equiv" form:"curso_equiv"`
	ChEquiv         string `json:"ch_equiv" form:"ch_equiv"`
	Justificativa   string `json:"justificativa" form:"justificativa"`
}

// IsEmpty reports whether every field is blank
func (f Form) IsEmpty() bool {
	return f == Form{}
}

// Session is the backend's view of the current login
type Session struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// Credentials is the login request body
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
