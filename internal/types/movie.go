package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"unicode/utf8"
)

// Category -----------------------------------------------------------------------

// Category identifies one of the three record groupings of a snapshot.
// Numeric collections are only comparable inside a single category.
type Category string

const (
	CategoryRunning      Category = "running"
	CategoryTopIndian    Category = "topIndian"
	CategoryTopWorldwide Category = "topWorldwide"
)

// Categories returns the categories in snapshot order.
func Categories() []Category {
	return []Category{CategoryRunning, CategoryTopIndian, CategoryTopWorldwide}
}

// ParseCategory accepts the payload key or the ID prefix of a category.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "running", "run":
		return CategoryRunning, true
	case "topindian", "ind", "indian":
		return CategoryTopIndian, true
	case "topworldwide", "ww", "global", "worldwide":
		return CategoryTopWorldwide, true
	}
	return "", false
}

// Prefix is the ID prefix used for records of this category.
func (c Category) Prefix() string {
	switch c {
	case CategoryRunning:
		return "run"
	case CategoryTopIndian:
		return "ind"
	case CategoryTopWorldwide:
		return "ww"
	}
	return "rec"
}

// Unit names the magnitude of Movie.CollectionValue for this category.
func (c Category) Unit() string {
	if c == CategoryTopWorldwide {
		return "billions"
	}
	return "crores"
}

func (c Category) Title() string {
	switch c {
	case CategoryRunning:
		return "Live Theaters"
	case CategoryTopIndian:
		return "Indian Records"
	case CategoryTopWorldwide:
		return "Global Records"
	}
	return string(c)
}

// Amount -------------------------------------------------------------------------

// Amount is a collection magnitude. NaN marks a missing or non-numeric value
// and is encoded as JSON null.
type Amount float64

// NaNAmount returns the unsortable marker value.
func NaNAmount() Amount { return Amount(math.NaN()) }

func (a Amount) Valid() bool {
	f := float64(a)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (a Amount) Float() float64 { return float64(a) }

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(a))
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*a = NaNAmount()
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// Movie --------------------------------------------------------------------------

// Movie is one box-office record. Display strings are kept exactly as the
// model returned them; only CollectionValue is meant for ordering.
type Movie struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ReleaseDate     string   `json:"releaseDate"`
	Collection      string   `json:"collection"`
	CollectionValue Amount   `json:"collectionValue"`
	Budget          string   `json:"budget"`
	Language        string   `json:"language"`
	Industry        string   `json:"industry"`
	Category        Category `json:"category"`
}

// Citation -----------------------------------------------------------------------

type Citation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// ShortLabel returns the title up to the first '|' separator, trimmed and
// cut to limit runes. A cut label ends with "...".
func (c Citation) ShortLabel(limit int) string {
	label := c.Title
	if i := strings.Index(label, "|"); i >= 0 {
		label = label[:i]
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = strings.TrimSpace(c.URI)
	}
	if limit <= 0 || utf8.RuneCountInString(label) <= limit {
		return label
	}
	r := []rune(label)
	return strings.TrimSpace(string(r[:limit])) + "..."
}
