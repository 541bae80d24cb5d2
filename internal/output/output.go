// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes results and diagnostics in the shapes callers parse.
// Results go to stdout as one line of JSON (or a YAML document on request);
// diagnostics go to stderr as a one-element JSON array.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/search-trends/pkg/types"
)

// ErrorPrefix starts every diagnostic message.
const ErrorPrefix = "Error: "

// ParseFormat validates a format name. Empty means JSON.
func ParseFormat(s string) (types.OutputFormat, error) {
	switch types.OutputFormat(s) {
	case "", types.OutputJSON:
		return types.OutputJSON, nil
	case types.OutputYAML:
		return types.OutputYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: use json or yaml", s)
	}
}

// Write encodes v to w in format. JSON is written as a single line.
func Write(w io.Writer, format types.OutputFormat, v any) error {
	var data []byte
	var err error
	switch format {
	case "", types.OutputJSON:
		data, err = encodeJSON(v)
	case types.OutputYAML:
		data, err = encodeYAML(v)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteDiagnostic writes err as ["Error: <message>"] on a single line.
// Diagnostics are always JSON so callers can parse stderr the same way
// regardless of the result format.
func WriteDiagnostic(w io.Writer, err error) error {
	data, encErr := encodeJSON([]string{ErrorPrefix + err.Error()})
	if encErr != nil {
		return encErr
	}
	_, werr := w.Write(data)
	return werr
}

// encodeJSON marshals v compactly, without HTML escaping, ending in "\n".
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
