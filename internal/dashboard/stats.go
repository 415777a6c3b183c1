package dashboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"boxoffice/internal/types"
)

// Milestones per category, in the category's unit.
var milestones = map[types.Category]decimal.Decimal{
	types.CategoryRunning:      decimal.NewFromInt(100),
	types.CategoryTopIndian:    decimal.NewFromInt(1000),
	types.CategoryTopWorldwide: decimal.NewFromInt(2),
}

// IndustryCount is how many records share one industry label.
type IndustryCount struct {
	Industry string `json:"industry"`
	Count    int    `json:"count"`
}

// Stats summarises one category. Totals skip records without a number.
type Stats struct {
	Category       types.Category  `json:"category"`
	Unit           string          `json:"unit"`
	Count          int             `json:"count"`
	Priced         int             `json:"priced"`
	Top            *types.Movie    `json:"top,omitempty"`
	Total          decimal.Decimal `json:"total"`
	Average        decimal.Decimal `json:"average"`
	Milestone      decimal.Decimal `json:"milestone"`
	AboveMilestone int             `json:"aboveMilestone"`
	Industries     []IndustryCount `json:"industries"`
}

// Summarize computes the stat cards for one category. Totals are summed as
// decimals so the figures match what the model printed.
func Summarize(c types.Category, movies []types.Movie) Stats {
	st := Stats{
		Category:  c,
		Unit:      c.Unit(),
		Count:     len(movies),
		Total:     decimal.Zero,
		Average:   decimal.Zero,
		Milestone: milestones[c],
	}

	counts := map[string]int{}
	var order []string
	for i := range movies {
		m := movies[i]
		if _, ok := counts[m.Industry]; !ok {
			order = append(order, m.Industry)
		}
		counts[m.Industry]++

		if !m.CollectionValue.Valid() {
			continue
		}
		v := decimal.NewFromFloat(m.CollectionValue.Float())
		st.Priced++
		st.Total = st.Total.Add(v)
		if v.GreaterThan(st.Milestone) {
			st.AboveMilestone++
		}
		if st.Top == nil || m.CollectionValue > st.Top.CollectionValue {
			top := m
			st.Top = &top
		}
	}
	if st.Priced > 0 {
		st.Average = st.Total.Div(decimal.NewFromInt(int64(st.Priced))).Round(2)
	}

	st.Industries = make([]IndustryCount, 0, len(order))
	for _, ind := range order {
		st.Industries = append(st.Industries, IndustryCount{Industry: ind, Count: counts[ind]})
	}
	sort.SliceStable(st.Industries, func(i, j int) bool {
		return st.Industries[i].Count > st.Industries[j].Count
	})
	return st
}
