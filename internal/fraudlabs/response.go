package fraudlabs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Response is a decoded FraudLabs Pro answer. The service owns the schema, so
// fields are kept untyped and read through the accessors below.
type Response struct {
	Raw    json.RawMessage
	Fields map[string]any
}

// NewResponse decodes a JSON body, keeping the raw bytes for verbatim output.
func NewResponse(raw []byte) (*Response, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	fields, _ := v.(map[string]any)
	if fields == nil {
		fields = map[string]any{}
	}
	return &Response{Raw: json.RawMessage(raw), Fields: fields}, nil
}

// Pretty returns the body exactly as received, indented by two spaces.
func (r *Response) Pretty() ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Raw, "", "  "); err != nil {
		return nil, fmt.Errorf("indent response: %w", err)
	}
	return buf.Bytes(), nil
}

// Value returns the field and whether it is present and non-null.
func (r *Response) Value(key string) (any, bool) {
	return lookup(r.Fields, key)
}

// String returns a scalar field as text. Empty strings report false.
func (r *Response) String(key string) (string, bool) {
	v, ok := r.Value(key)
	if !ok {
		return "", false
	}
	return scalarText(v)
}

// Object returns a nested JSON object field.
func (r *Response) Object(key string) (*Response, bool) {
	v, ok := r.Value(key)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, false
	}
	return &Response{Raw: raw, Fields: m}, true
}

// Bool reports whether a field holds a true-ish value: true, a non-zero
// number, or one of "Y", "YES", "TRUE", "1" in any case.
func (r *Response) Bool(key string) bool {
	v, ok := r.Value(key)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case string:
		switch strings.ToUpper(strings.TrimSpace(t)) {
		case "Y", "YES", "TRUE", "1":
			return true
		}
	}
	return false
}

// Number parses a numeric field. Numeric strings such as "42" are accepted.
func (r *Response) Number(key string) (float64, bool) {
	s, ok := r.String(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func lookup(m map[string]any, key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}
