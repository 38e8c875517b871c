package ingest

import (
	"errors"
	"fmt"
)

// ErrFormat indicates a document that is not a readable workflow.
var ErrFormat = errors.New("format error")

// FormatError describes why a document could not be read.
// Wraps ErrFormat for errors.Is() compatibility.
type FormatError struct {
	Path string
	Msg  string
	Err  error
}

func (e *FormatError) Error() string {
	if e == nil {
		return ""
	}
	where := e.Path
	if where == "" {
		where = "<input>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", ErrFormat.Error(), where, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrFormat.Error(), where, e.Msg)
}

func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFormat}
	}
	return []error{ErrFormat, e.Err}
}
