package source

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when a file extension or URL does not map
// to any format the reader understands. It is fatal to that source only;
// sibling sources in a multi-source load continue.
var ErrUnsupportedFormat = errors.New("source: unsupported format")

// FetchError reports a failure retrieving a remote location, including a
// non-success HTTP status. It is recoverable by retry and never aborts
// sibling sources.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports byte content that could not be decoded into its
// declared format. Fatal to that source only.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
