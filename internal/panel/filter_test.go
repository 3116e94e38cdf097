package panel

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/aethra/equivalencias/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func rec(id int64, disciplina, curso string) models.Equivalencia {
	return models.Equivalencia{
		ID: id, DisciplinaAdm: disciplina, CodigoAdm: "C" + disciplina, ChAdm: "60",
		DisciplinaEquiv: disciplina + " equiv", CodigoEquiv: "E", CursoEquiv: curso,
		ChEquiv: "90", Justificativa: "texto",
	}
}

func ids(records []models.Equivalencia) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFilter_Scenario(t *testing.T) {
	cache := []models.Equivalencia{rec(1, "Calc I", "Eng"), rec(2, "Physics", "Eng")}

	assert.Equal(t, []int64{1}, ids(Filter(cache, "calc")))
	assert.Equal(t, []int64{1}, ids(Filter(cache, "CALC")))
}

func TestFilter_EmptyQueryReturnsAllInOrder(t *testing.T) {
	cache := []models.Equivalencia{rec(3, "b", ""), rec(1, "a", ""), rec(2, "c", "")}

	got := Filter(cache, "")
	assert.Equal(t, []int64{3, 1, 2}, ids(got))

	got[0].DisciplinaAdm = "mutated"
	assert.Equal(t, "b", cache[0].DisciplinaAdm)
}

func TestFilter_SearchColumns(t *testing.T) {
	base := models.Equivalencia{ID: 1}
	tests := []struct {
		name  string
		set   func(*models.Equivalencia)
		match bool
	}{
		{"disciplina_adm", func(e *models.Equivalencia) { e.DisciplinaAdm = "xNEEDLEx" }, true},
		{"codigo_adm", func(e *models.Equivalencia) { e.CodigoAdm = "needle" }, true},
		{"ch_adm", func(e *models.Equivalencia) { e.ChAdm = "Needle" }, true},
		{"disciplina_equiv", func(e *models.Equivalencia) { e.DisciplinaEquiv = "needle" }, true},
		{"codigo_equiv", func(e *models.Equivalencia) { e.CodigoEquiv = "needle" }, true},
		{"curso_equiv", func(e *models.Equivalencia) { e.CursoEquiv = "needle" }, true},
		{"justificativa", func(e *models.Equivalencia) { e.Justificativa = "a needle here" }, true},
		{"ch_equiv is not searched", func(e *models.Equivalencia) { e.ChEquiv = "needle" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base
			tt.set(&e)
			got := Filter([]models.Equivalencia{e}, "needle")
			assert.Equal(t, tt.match, len(got) == 1)
		})
	}
}

func TestFilter_SubsetProperty(t *testing.T) {
	words := []string{"Cálculo", "Álgebra", "Física", "Química", "Programação", "calc", "ALG"}
	r := rand.New(rand.NewSource(7))

	cache := make([]models.Equivalencia, 0, 60)
	for i := 0; i < 60; i++ {
		cache = append(cache, models.Equivalencia{
			ID:              int64(i + 1),
			DisciplinaAdm:   words[r.Intn(len(words))],
			CodigoAdm:       words[r.Intn(len(words))],
			DisciplinaEquiv: words[r.Intn(len(words))],
			CursoEquiv:      words[r.Intn(len(words))],
			Justificativa:   words[r.Intn(len(words))],
		})
	}

	for _, q := range []string{"calc", "álg", "ÍSICA", "ção", "zzz"} {
		got := Filter(cache, q)
		var want []int64
		for _, e := range cache {
			for _, col := range models.SearchColumns {
				if strings.Contains(strings.ToLower(e.Field(col)), strings.ToLower(q)) {
					want = append(want, e.ID)
					break
				}
			}
		}
		if want == nil {
			want = []int64{}
		}
		assert.Equal(t, want, ids(got), q)
	}
}

func TestSorter_ToggleIsPerColumn(t *testing.T) {
	s := NewSorter(language.BrazilianPortuguese)

	assert.Equal(t, Asc, s.Toggle(models.ColDisciplinaAdm))
	assert.Equal(t, Asc, s.Toggle(models.ColCursoEquiv))
	assert.Equal(t, Desc, s.Toggle(models.ColDisciplinaAdm))
	assert.Equal(t, Desc, s.Toggle(models.ColCursoEquiv))
	assert.Equal(t, Asc, s.Toggle(models.ColDisciplinaAdm))

	dir, ok := s.Direction(models.ColCursoEquiv)
	require.True(t, ok)
	assert.Equal(t, Desc, dir)

	_, ok = s.Direction(models.ColJustificativa)
	assert.False(t, ok)
}

func TestSorter_LocaleAwareCaseInsensitive(t *testing.T) {
	s := NewSorter(language.BrazilianPortuguese)
	cache := []models.Equivalencia{
		rec(1, "zoologia", ""),
		rec(2, "Álgebra", ""),
		rec(3, "algoritmos", ""),
		rec(4, "Banco de Dados", ""),
	}

	asc := s.Sort(cache, models.ColDisciplinaAdm, Asc)
	assert.Equal(t, []int64{2, 3, 4, 1}, ids(asc))

	desc := s.Sort(cache, models.ColDisciplinaAdm, Desc)
	assert.Equal(t, []int64{1, 4, 3, 2}, ids(desc))

	assert.Equal(t, []int64{1, 2, 3, 4}, ids(cache), "cache must not be reordered")
}
