package llmtool

import (
	"fmt"
	"reflect"
	"strings"
)

// Item is the wire shape of one record the model is asked to return.
type Item struct {
	Name               string  `json:"name" desc:"Film title."`
	YearOrDate         string  `json:"yearOrDate" desc:"Release date for running films, release year otherwise."`
	CollectionStr      string  `json:"collectionStr" desc:"Display amount with currency symbol and unit suffix."`
	CollectionNumeric  float64 `json:"collectionNumeric" desc:"Same amount as a plain number in the list's unit, used for sorting."`
	Budget             string  `json:"budget" desc:"Display budget with currency symbol and unit suffix."`
	LanguageOrIndustry string  `json:"languageOrIndustry" desc:"Language or film industry."`
}

// ItemFields are the keys every record object must carry.
var ItemFields = MustFieldsFromStruct(Item{})

// FieldsFromStruct describes the JSON fields of a struct. Field names come
// from the json tag, descriptions from desc, and a prompt:"optional" tag
// clears Required. Fields without a json name are skipped.
func FieldsFromStruct(v any) ([]PromptField, error) {
	if v == nil {
		return nil, fmt.Errorf("llmtool: struct is nil")
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("llmtool: expected struct, got %s", t.Kind())
	}
	fields := make([]PromptField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		fields = append(fields, PromptField{
			Name:        name,
			Type:        jsonType(f.Type),
			Required:    strings.TrimSpace(f.Tag.Get("prompt")) != "optional",
			Description: strings.TrimSpace(f.Tag.Get("desc")),
		})
	}
	return fields, nil
}

// MustFieldsFromStruct panics on error; useful for package-level schemas.
func MustFieldsFromStruct(v any) []PromptField {
	fields, err := FieldsFromStruct(v)
	if err != nil {
		panic(err)
	}
	return fields
}

// FieldNames lists the names in declaration order.
func FieldNames(fields []PromptField) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
