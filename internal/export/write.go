package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for formats other than FormatYAML and FormatJSON.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatYAML, FormatJSON}
}

// ValidFormat reports whether format names a supported output format.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatYAML, FormatJSON:
		return true
	}
	return false
}

// Extension returns the file extension for format, including the dot.
func Extension(format string) string {
	if strings.EqualFold(format, FormatJSON) {
		return ".json"
	}
	return ".yaml"
}

// Write encodes v to w in the given format.
func Write(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
