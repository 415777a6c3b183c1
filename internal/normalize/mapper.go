package normalize

import (
	"strconv"

	"github.com/google/uuid"

	"boxoffice/internal/types"
)

// Raw item keys requested from the model.
const (
	keyName       = "name"
	keyYearOrDate = "yearOrDate"
	keyCollection = "collectionStr"
	keyNumeric    = "collectionNumeric"
	keyBudget     = "budget"
	keyLanguage   = "languageOrIndustry"
)

// IDGenerator returns a fresh record ID for a category.
type IDGenerator func(c types.Category) string

// UUIDGenerator builds IDs like "run-6f1c...". IDs only need to tell list
// items apart within one snapshot.
func UUIDGenerator(c types.Category) string {
	return c.Prefix() + "-" + uuid.NewString()
}

// Mapper turns decoded items into Movies. The same mapping serves all three
// categories.
type Mapper struct {
	NewID IDGenerator
}

// Map converts raw items in input order. Items that are not objects become
// records with default fields. No sorting is applied.
func (m Mapper) Map(c types.Category, raw []any) []types.Movie {
	newID := m.NewID
	if newID == nil {
		newID = UUIDGenerator
	}
	out := make([]types.Movie, 0, len(raw))
	for _, item := range raw {
		obj, _ := item.(map[string]any)
		lang := text(obj, keyLanguage)
		out = append(out, types.Movie{
			ID:              newID(c),
			Name:            text(obj, keyName),
			ReleaseDate:     text(obj, keyYearOrDate),
			Collection:      text(obj, keyCollection),
			CollectionValue: number(obj, keyNumeric),
			Budget:          text(obj, keyBudget),
			Language:        lang,
			Industry:        lang,
			Category:        c,
		})
	}
	return out
}

// text passes strings through untouched and renders other scalars the way
// they appeared in the payload. Missing fields and containers yield "".
func text(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// number only accepts JSON numbers; anything else is unsortable.
func number(obj map[string]any, key string) types.Amount {
	if v, ok := obj[key].(float64); ok {
		return types.Amount(v)
	}
	return types.NaNAmount()
}
