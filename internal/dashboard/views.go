package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"boxoffice/internal/types"
)

// SortKey is a sortable table column.
type SortKey string

const (
	SortName        SortKey = "name"
	SortReleaseDate SortKey = "releaseDate"
	SortCollection  SortKey = "collectionValue"
	SortBudget      SortKey = "budget"
)

// TableQuery mirrors the table controls: one sort column, a direction and a
// free-text filter.
type TableQuery struct {
	SortKey SortKey
	Desc    bool
	Filter  string
}

// DefaultTableQuery sorts by collection, highest first.
func DefaultTableQuery() TableQuery {
	return TableQuery{SortKey: SortCollection, Desc: true}
}

var ErrInvalidQuery = errors.New("dashboard: invalid table query")

// ParseTableQuery reads sort, dir and q values. Empty sort and dir fall back
// to DefaultTableQuery.
func ParseTableQuery(sortKey, dir, filter string) (TableQuery, error) {
	q := DefaultTableQuery()
	switch SortKey(strings.TrimSpace(sortKey)) {
	case "":
	case SortName, SortReleaseDate, SortCollection, SortBudget:
		q.SortKey = SortKey(strings.TrimSpace(sortKey))
	default:
		return q, fmt.Errorf("%w: unknown sort key %q", ErrInvalidQuery, sortKey)
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "desc":
		q.Desc = true
	case "asc":
		q.Desc = false
	default:
		return q, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidQuery, dir)
	}
	q.Filter = filter
	return q, nil
}

// searchKey composes and case-folds s so "é" typed either way matches.
func searchKey(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// ApplyTable filters by name or industry and sorts a copy of movies.
// Records without a numeric collection sort last in both directions.
func ApplyTable(movies []types.Movie, q TableQuery) []types.Movie {
	needle := searchKey(strings.TrimSpace(q.Filter))

	out := make([]types.Movie, 0, len(movies))
	for _, m := range movies {
		if needle == "" ||
			strings.Contains(searchKey(m.Name), needle) ||
			strings.Contains(searchKey(m.Industry), needle) {
			out = append(out, m)
		}
	}

	key := q.SortKey
	if key == "" {
		key = SortCollection
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if key == SortCollection {
			av, bv := a.CollectionValue.Valid(), b.CollectionValue.Valid()
			if av != bv {
				return av
			}
			if !av {
				return false
			}
			if q.Desc {
				return a.CollectionValue > b.CollectionValue
			}
			return a.CollectionValue < b.CollectionValue
		}
		as, bs := textKey(a, key), textKey(b, key)
		if q.Desc {
			return as > bs
		}
		return as < bs
	})
	return out
}

func textKey(m types.Movie, k SortKey) string {
	switch k {
	case SortName:
		return m.Name
	case SortReleaseDate:
		return m.ReleaseDate
	case SortBudget:
		return m.Budget
	}
	return ""
}

// TopN returns the n highest collections, skipping records without a number.
// It feeds the bar chart.
func TopN(movies []types.Movie, n int) []types.Movie {
	out := ApplyTable(movies, DefaultTableQuery())
	end := 0
	for end < len(out) && out[end].CollectionValue.Valid() {
		end++
	}
	out = out[:end]
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// SeriesPoint is one bar of the chart.
type SeriesPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ChartSeries is TopN reduced to name/value pairs.
func ChartSeries(movies []types.Movie, n int) []SeriesPoint {
	top := TopN(movies, n)
	out := make([]SeriesPoint, len(top))
	for i, m := range top {
		out[i] = SeriesPoint{Name: m.Name, Value: m.CollectionValue.Float()}
	}
	return out
}

// SourceLink is a citation ready for display.
type SourceLink struct {
	Label string `json:"label"`
	Title string `json:"title"`
	URI   string `json:"uri"`
}

const (
	DefaultSourceLimit = 3
	DefaultLabelMax    = 20
)

// SourceLinks returns the first limit citations with short labels.
func SourceLinks(sources []types.Citation, limit, labelMax int) []SourceLink {
	if limit < 0 || limit > len(sources) {
		limit = len(sources)
	}
	out := make([]SourceLink, 0, limit)
	for _, c := range sources[:limit] {
		out = append(out, SourceLink{Label: c.ShortLabel(labelMax), Title: c.Title, URI: c.URI})
	}
	return out
}
