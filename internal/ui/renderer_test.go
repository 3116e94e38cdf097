package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aethra/equivalencias/internal/models"
	"github.com/aethra/equivalencias/internal/notify"
	"github.com/aethra/equivalencias/internal/panel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func byID(n *html.Node, id string) *html.Node {
	found := findAll(n, func(n *html.Node) bool {
		v, ok := attr(n, "id")
		return ok && v == id
	})
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

func rows(n *html.Node, tbodyID string) []*html.Node {
	tbody := byID(n, tbodyID)
	if tbody == nil {
		return nil
	}
	return findAll(tbody, func(n *html.Node) bool { return n.Data == "tr" })
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func record(id int64, name, justification string) models.Equivalencia {
	return models.Equivalencia{
		ID: id, DisciplinaAdm: name, CodigoAdm: "MTM", ChAdm: "60",
		DisciplinaEquiv: name + " II", CodigoEquiv: "X1", CursoEquiv: "Engenharia",
		ChEquiv: "60", Justificativa: justification,
	}
}

func render(t *testing.T, state panel.State, toasts []notify.Toast) *html.Node {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).RenderPage(&buf, NewPageData(state, toasts)))
	return parse(t, buf.String())
}

func TestTruncate(t *testing.T) {
	short := strings.Repeat("a", JustificationLimit)
	assert.Equal(t, short, Truncate(short))

	long := strings.Repeat("ç", JustificationLimit+1)
	got := Truncate(long)
	assert.Equal(t, strings.Repeat("ç", JustificationLimit)+"...", got)
}

func TestRenderPage_PublicTableTruncatesWithTooltip(t *testing.T) {
	long := strings.Repeat("justificativa ", 10)
	recs := []models.Equivalencia{record(1, "Cálculo", long), record(2, "Física", "curta")}
	doc := render(t, panel.State{Records: recs, All: recs}, nil)

	trs := rows(doc, "equivalenciasTable")
	require.Len(t, trs, 2)

	divs := findAll(trs[0], func(n *html.Node) bool { return hasClass(n, "justificativa") })
	require.Len(t, divs, 1)
	title, _ := attr(divs[0], "title")
	assert.Equal(t, long, title)
	assert.Equal(t, strings.TrimSpace(Truncate(long)), text(divs[0]))
	assert.True(t, hasClass(divs[0], "truncated"))

	divs = findAll(trs[1], func(n *html.Node) bool { return hasClass(n, "justificativa") })
	assert.Equal(t, "curta", text(divs[0]))
	assert.False(t, hasClass(divs[0], "truncated"))

	assert.Nil(t, byID(doc, "noResults"))
	assert.Nil(t, byID(doc, "adminSection"), "admin UI hidden when not authenticated")
}

func TestRenderPage_EmptyState(t *testing.T) {
	doc := render(t, panel.State{All: []models.Equivalencia{record(1, "a", "b")}}, nil)

	assert.Empty(t, rows(doc, "equivalenciasTable"))
	assert.NotNil(t, byID(doc, "noResults"))
}

func TestRenderPage_EscapesValues(t *testing.T) {
	evil := record(1, `<script>alert(1)</script>`, `"><img src=x onerror=alert(1)>`)
	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).RenderPage(&buf, NewPageData(panel.State{Records: []models.Equivalencia{evil}}, nil)))

	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.NotContains(t, buf.String(), "<img src=x")
}

func TestRenderPage_AdminTableActions(t *testing.T) {
	long := strings.Repeat("x", 150)
	recs := []models.Equivalencia{record(7, "Cálculo", long), record(9, "Física", "y")}
	doc := render(t, panel.State{Records: recs, All: recs, AdminVisible: true, Username: "admin"}, nil)

	require.NotNil(t, byID(doc, "adminSection"))
	assert.Equal(t, "admin", text(byID(doc, "adminUsername")))

	trs := rows(doc, "adminTable")
	require.Len(t, trs, 2)

	forms := findAll(trs[0], func(n *html.Node) bool { return n.Data == "form" })
	require.Len(t, forms, 2)
	edit, _ := attr(forms[0], "action")
	del, _ := attr(forms[1], "action")
	assert.Equal(t, "/equivalencias/7/edit", edit)
	assert.Equal(t, "/equivalencias/7/delete", del)

	assert.Nil(t, byID(doc, "cancelEdit"), "cancel only shown while editing")
}

func TestRenderPage_EditModeFillsForm(t *testing.T) {
	rec := record(3, "Álgebra", "igual")
	state := panel.State{
		All: []models.Equivalencia{rec}, AdminVisible: true,
		Form: rec.Form(), Editing: true, EditID: 3,
	}
	doc := render(t, state, nil)

	input := byID(doc, "disciplina_adm")
	require.NotNil(t, input)
	v, _ := attr(input, "value")
	assert.Equal(t, "Álgebra", v)
	assert.Equal(t, "igual", text(byID(doc, "justificativa")))
	assert.NotNil(t, byID(doc, "cancelEdit"))
}

func TestRenderPage_Dialogs(t *testing.T) {
	rec := record(4, "Química", "z")
	doc := render(t, panel.State{LoginOpen: true}, nil)
	assert.NotNil(t, byID(doc, "loginModal"))
	assert.Nil(t, byID(doc, "confirmDelete"))

	doc = render(t, panel.State{All: []models.Equivalencia{rec}, AdminVisible: true, PendingDelete: &rec}, nil)
	dialog := byID(doc, "confirmDelete")
	require.NotNil(t, dialog)
	buttons := findAll(dialog, func(n *html.Node) bool { return n.Data == "button" })
	require.Len(t, buttons, 2)
	v, _ := attr(buttons[1], "value")
	assert.Equal(t, "true", v)
}

func TestRenderPage_Toasts(t *testing.T) {
	center := notify.NewCenter()
	center.Notify(notify.Success, "Login realizado com sucesso!")
	center.Notify(notify.Error, "Erro de conexão ao salvar")

	doc := render(t, panel.State{}, center.Active())
	toasts := findAll(doc, func(n *html.Node) bool { return hasClass(n, "toast") })
	require.Len(t, toasts, 2)

	sev, _ := attr(toasts[1], "data-severity")
	assert.Equal(t, "error", sev)
	assert.True(t, hasClass(toasts[1], "bg-red-100"))
	assert.Contains(t, text(toasts[1]), "Erro de conexão ao salvar")

	icons := findAll(toasts[0], func(n *html.Node) bool { return hasClass(n, "fa-check-circle") })
	assert.Len(t, icons, 1)
}

func TestRenderPublicTable_Deterministic(t *testing.T) {
	r := newRenderer(t)
	recs := []models.Equivalencia{record(1, "a", "b"), record(2, "c", "d")}
	data := NewPageData(panel.State{Records: recs, Sorted: true, SortColumn: models.ColCodigoAdm, SortDirection: panel.Desc}, nil)

	var first, second bytes.Buffer
	require.NoError(t, r.RenderPublicTable(&first, data))
	require.NoError(t, r.RenderPublicTable(&second, data))
	assert.Equal(t, first.String(), second.String())
	assert.Contains(t, first.String(), "Código ADM ▼")
	assert.NotContains(t, first.String(), "<html")
}

func TestNewPageData_Headers(t *testing.T) {
	data := NewPageData(panel.State{Sorted: true, SortColumn: models.ColCursoEquiv, SortDirection: panel.Asc}, nil)

	require.Len(t, data.Headers, 8)
	assert.Equal(t, "curso_equiv", data.Headers[5].Key)
	assert.True(t, data.Headers[5].Active)
	assert.Equal(t, "▲", data.Headers[5].Arrow)
	assert.False(t, data.Headers[0].Active)
}

func TestRenderToasts_FragmentOnly(t *testing.T) {
	center := notify.NewCenter()
	toast := center.Notify(notify.Warning, "Por favor, preencha todos os campos.")

	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).RenderToasts(&buf, NewPageData(panel.State{}, center.Active())))

	out := buf.String()
	assert.NotContains(t, out, "<html")
	assert.NotContains(t, out, `id="public-table"`)
	assert.Contains(t, out, "/toasts/"+toast.ID+"/dismiss")
	assert.Contains(t, out, "fa-exclamation-triangle")
}

func TestRenderPage_FormLeavesValidationToBackend(t *testing.T) {
	doc := render(t, panel.State{AdminVisible: true}, nil)

	form := byID(doc, "equivalenciaForm")
	require.NotNil(t, form)
	fields := findAll(form, func(n *html.Node) bool { return n.Data == "input" || n.Data == "textarea" })
	require.Len(t, fields, 8)
	for _, f := range fields {
		_, ok := attr(f, "required")
		assert.False(t, ok, "field %s must not be required", f.Data)
	}
}
