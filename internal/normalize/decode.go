package normalize

import (
	"fmt"

	"boxoffice/internal/types"
	"boxoffice/internal/util/jsonutil"
)

// DecodeError reports a located payload that is not valid structured data,
// or a category key whose value is not an array.
type DecodeError struct {
	SpanLen  int
	Category types.Category // set for shape errors only
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("normalize: %q is not an array: %v", e.Category, e.Err)
	}
	return fmt.Sprintf("normalize: decode payload (%d bytes): %v", e.SpanLen, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// payload is the decoded tree split by category.
type payload map[types.Category][]any

// locate runs the scanner and decoder stages. found is false when the text
// holds no candidate object; that is not an error.
func locate(text string) (p payload, found bool, err error) {
	span, ok := jsonutil.FindObjectSpan(text)
	if !ok {
		return nil, false, nil
	}
	obj, err := jsonutil.DecodeObject(span)
	if err != nil {
		return nil, true, &DecodeError{SpanLen: len(span), Err: err}
	}
	p = make(payload, 3)
	for _, c := range types.Categories() {
		switch v := obj[string(c)].(type) {
		case nil:
			// absent or null
		case []any:
			p[c] = v
		default:
			return nil, true, &DecodeError{SpanLen: len(span), Category: c, Err: fmt.Errorf("got %T", v)}
		}
	}
	return p, true, nil
}
