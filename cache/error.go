package cache

import (
	"errors"
	"fmt"

	verr "github.com/gizbox-lang/gizparse/error"
)

var (
	errMissingMarker     = errors.New("missing section marker")
	errUnexpectedEOF     = errors.New("unexpected end of cache data")
	errRowLength         = errors.New("row length mismatch")
	errInvalidCell       = errors.New("invalid table cell")
	errInvalidStateIndex = errors.New("invalid state index")
	errDataMismatch      = errors.New("resolved data do not match the grammar input")
	errSignatureMismatch = errors.New("signature mismatch")
	errNoAccept          = errors.New("the table has no accept action")
	errShiftMismatch     = errors.New("a shift action does not follow the GOTO table")
)

// IntegrityError reports a cache file that cannot be turned back into parser data. Line is 1-based; zero means
// the error is not tied to a line.
type IntegrityError struct {
	Cause  error
	Line   int
	Detail string
}

func (e *IntegrityError) Error() string {
	msg := fmt.Sprintf("cache integrity error: %v", e.Cause)
	if e.Line > 0 {
		msg = fmt.Sprintf("cache integrity error: line %v: %v", e.Line, e.Cause)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *IntegrityError) Unwrap() error {
	return e.Cause
}

func (e *IntegrityError) Kind() verr.Kind {
	return verr.KindCacheIntegrity
}
