package dataset

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by DataSourceError.
var (
	ErrEmptySource          = errors.New("source is empty")
	ErrMissingCountryColumn = errors.New("missing country column")
)

// DataSourceError reports a source that is missing, unreadable, or holds a
// value that cannot be parsed (including a non-integer year label).
type DataSourceError struct {
	Source string // file path or "bundled:<name>"
	Op     string // what was being done, e.g. "open", "parse year label"
	Err    error
}

func (e *DataSourceError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("data source %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("data source %s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// SchemaError reports a reference source missing an expected column.
type SchemaError struct {
	Source string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error in %s: missing column %q", e.Source, e.Column)
}

func sourceErr(source, op string, err error) error {
	return &DataSourceError{Source: source, Op: op, Err: err}
}
