// Package format renders tool results as text for MCP clients.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const indent = "  "

// SerializationError is returned when a value has no textual representation,
// for example a cyclic structure or a channel.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize result: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Format serializes v to its canonical pretty-printed text.
// Strings pass through unchanged and byte slices are decoded as UTF-8.
// Everything else is rendered as indented JSON, keeping the field order of the source value.
func Format(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.RawMessage:
		return formatRaw(t)
	case []byte:
		if utf8.Valid(t) {
			return string(t), nil
		}
		return strings.ToValidUTF8(string(t), "�"), nil
	}

	b, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return "", &SerializationError{Err: err}
	}
	return string(b), nil
}

func formatRaw(raw json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "{}", nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", indent); err != nil {
		return "", &SerializationError{Err: err}
	}
	return buf.String(), nil
}
