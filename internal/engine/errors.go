package engine

import "fmt"

// ErrorKind classifies per-item failures. None of them abort the run; the
// orchestrator reports the item and moves on.
type ErrorKind string

const (
	ErrKindParse      ErrorKind = "parse_ambiguous"
	ErrKindLookup     ErrorKind = "lookup_not_found"
	ErrKindProbe      ErrorKind = "probe_failed"
	ErrKindDownload   ErrorKind = "download_failed"
	ErrKindFilesystem ErrorKind = "filesystem_error"
)

type ItemError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ItemError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
