package content

import "fmt"

// DataError reports a missing or malformed content catalog. It is fatal:
// the process must exit rather than play with partial content.
type DataError struct {
	File string
	Msg  string
	Err  error
}

// Error renders the catalog file and the violation.
func (e *DataError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("conteúdo inválido: %s", e.Msg)
	}
	return fmt.Sprintf("conteúdo inválido em %q: %s", e.File, e.Msg)
}

// Unwrap exposes the underlying cause, if any.
func (e *DataError) Unwrap() error { return e.Err }

// dataErrf builds a DataError for file with a formatted message.
func dataErrf(file string, format string, args ...any) *DataError {
	return &DataError{File: file, Msg: fmt.Sprintf(format, args...)}
}
