package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNotObject is returned by DecodeObject when the span parses but is not a
// JSON object.
var ErrNotObject = errors.New("jsonutil: top-level value is not an object")

// FindObjectSpan returns the text between the first '{' and the last '}'
// inclusive. It does not check brace balance; a span that fails to decode is
// the caller's problem. When an opening brace has no closing brace after it
// the payload was cut off, and the rest of the text from the first '{' is
// returned so that decoding reports it.
func FindObjectSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		return text[start:], true
	}
	return text[start : end+1], true
}

// DecodeObject strictly decodes span into a generic tree. Numbers stay
// float64 as encoding/json produces them.
func DecodeObject(span string) (map[string]any, error) {
	var v any
	// json.Unmarshal rejects trailing data, including a stray closing brace.
	if err := json.Unmarshal([]byte(span), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

// MarshalNoEscape encodes v into JSON without HTML-escaping <, > and &.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Remove trailing newline from json.Encoder.Encode
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalNoEscapeIndent is MarshalNoEscape with indentation.
func MarshalNoEscapeIndent(v any, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
