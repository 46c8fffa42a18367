package danmaku

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewFields     = errors.New("too few attribute fields")
	ErrMissingAttribute = errors.New("missing p attribute")
	ErrNegativeStart    = errors.New("start time is negative")
	ErrColorRange       = errors.New("color outside 24-bit range")
)

// ParseError reports a malformed document or comment. Index is the 0-based
// position of the comment in the document, or -1 when the document itself
// could not be parsed.
type ParseError struct {
	Index int
	Raw   string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("parse comment feed: %v", e.Err)
	}
	if e.Field == "" {
		return fmt.Sprintf("comment %d (p=%q): %v", e.Index, e.Raw, e.Err)
	}
	return fmt.Sprintf(
		"comment %d (p=%q): invalid %s: %v",
		e.Index,
		e.Raw,
		e.Field,
		e.Err,
	)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
