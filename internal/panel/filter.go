package panel

import (
	"slices"
	"strings"
	"sync"

	"github.com/aethra/equivalencias/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter returns the records where query, ignoring case, is a substring of
// at least one search column. An empty query returns a copy of records in
// their original order. records itself is never modified.
func Filter(records []models.Equivalencia, query string) []models.Equivalencia {
	if query == "" {
		return slices.Clone(records)
	}

	needle := strings.ToLower(query)
	out := make([]models.Equivalencia, 0, len(records))
	for _, rec := range records {
		if matches(rec, needle) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec models.Equivalencia, needle string) bool {
	for _, col := range models.SearchColumns {
		if strings.Contains(strings.ToLower(rec.Field(col)), needle) {
			return true
		}
	}
	return false
}

// Direction is a sort direction
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sorter remembers a direction per column and orders records with a
// locale-aware, case-insensitive collation.
type Sorter struct {
	mu         sync.Mutex
	collator   *collate.Collator
	directions map[models.Column]Direction
}

// NewSorter creates a sorter collating for tag
func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{
		collator:   collate.New(tag, collate.IgnoreCase),
		directions: make(map[models.Column]Direction),
	}
}

// Toggle advances the column's direction: first use is ascending, then it
// flips on every call. Other columns are untouched.
func (s *Sorter) Toggle(col models.Column) Direction {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, seen := s.directions[col]
	switch {
	case !seen:
		dir = Asc
	case dir == Asc:
		dir = Desc
	default:
		dir = Asc
	}
	s.directions[col] = dir
	return dir
}

// Direction returns the remembered direction of col, if any
func (s *Sorter) Direction(col models.Column) (Direction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir, ok := s.directions[col]
	return dir, ok
}

// Sort returns a copy of records ordered by col in dir
func (s *Sorter) Sort(records []models.Equivalencia, col models.Column, dir Direction) []models.Equivalencia {
	out := slices.Clone(records)

	// collate.Collator keeps internal buffers and is not safe for concurrent use
	s.mu.Lock()
	defer s.mu.Unlock()

	slices.SortStableFunc(out, func(a, b models.Equivalencia) int {
		cmp := s.collator.CompareString(strings.ToLower(a.Field(col)), strings.ToLower(b.Field(col)))
		if dir == Desc {
			return -cmp
		}
		return cmp
	})
	return out
}
