// Package render prints snapshots as aligned markdown tables for the CLI.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"boxoffice/internal/dashboard"
	"boxoffice/internal/types"
)

// Table lays out rows as a markdown table, padding cells by display width so
// Devanagari, Tamil or full-width titles line up.
func Table(header []string, rows [][]string) []string {
	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	colWidths := make([]int, colCount)
	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			if w := runewidth.StringWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	line := func(row []string, sep bool) string {
		var sb strings.Builder
		sb.WriteString("|")
		for j := 0; j < colCount; j++ {
			sb.WriteString(" ")
			if sep {
				sb.WriteString(strings.Repeat("-", colWidths[j]))
			} else {
				content := ""
				if j < len(row) {
					content = row[j]
				}
				sb.WriteString(runewidth.FillRight(content, colWidths[j]))
			}
			sb.WriteString(" |")
		}
		return sb.String()
	}

	out := make([]string, 0, len(rows)+2)
	out = append(out, line(header, false), line(nil, true))
	for _, row := range rows {
		out = append(out, line(row, false))
	}
	return out
}

var movieHeader = []string{"#", "Name", "Released", "Collection", "Value", "Budget", "Industry"}

// MovieRows renders one row per movie. Value shows the numeric collection in
// the category's unit, or "-" when missing.
func MovieRows(movies []types.Movie) [][]string {
	rows := make([][]string, 0, len(movies))
	for i, m := range movies {
		value := "-"
		if m.CollectionValue.Valid() {
			value = strconv.FormatFloat(m.CollectionValue.Float(), 'f', -1, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1), m.Name, m.ReleaseDate, m.Collection, value, m.Budget, m.Industry,
		})
	}
	return rows
}

// Snapshot writes the three category tables, a stats line per category and
// the top sources.
func Snapshot(w io.Writer, snap *types.Snapshot, sourceLimit int) error {
	if snap == nil {
		_, err := fmt.Fprintln(w, "no data")
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Last updated: %s\n\n", snap.LastUpdated)
	for _, c := range types.Categories() {
		movies := dashboard.ApplyTable(snap.Movies(c), dashboard.DefaultTableQuery())
		st := dashboard.Summarize(c, movies)

		fmt.Fprintf(&b, "## %s (%s)\n\n", c.Title(), st.Unit)
		if len(movies) == 0 {
			b.WriteString("No records.\n\n")
			continue
		}
		for _, l := range Table(movieHeader, MovieRows(movies)) {
			b.WriteString(l)
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\n%s\n\n", statsLine(st))
	}

	links := dashboard.SourceLinks(snap.Sources, sourceLimit, dashboard.DefaultLabelMax)
	if len(links) > 0 {
		b.WriteString("Sources:\n")
		for _, l := range links {
			fmt.Fprintf(&b, "  - %s <%s>\n", l.Label, l.URI)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func statsLine(st dashboard.Stats) string {
	top := "N/A"
	if st.Top != nil {
		top = st.Top.Name
	}
	return fmt.Sprintf("%d titles, top: %s, total: %s %s, average: %s, above %s: %d",
		st.Count, top, st.Total.StringFixed(1), st.Unit, st.Average.StringFixed(1), st.Milestone.String(), st.AboveMilestone)
}
