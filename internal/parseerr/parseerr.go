// Package parseerr defines the error types the parser and its surrounding
// tooling raise. ParseError reports, for a human reader, that a particular
// input could not be understood: Engine wraps a section's parse failure in
// one before writing the message out and moving on to the next section.
// (Transforms signal their own failures with defs.ParseError, which
// xfrm.Run handles.) LoadError reports that a rule-table blob could not be
// loaded.
package parseerr

import "fmt"

// parseError is an error raised while trying to understand a specific piece
// of input. It carries a human-readable message plus an optional wrapped
// cause.
type parseError struct {
	msg  string
	wrap error
}

func (e *parseError) Error() string { return e.msg }
func (e *parseError) Unwrap() error { return e.wrap }

// Parse returns a new ParseError with the given message.
func Parse(msg string) error {
	return &parseError{msg: msg}
}

// Parsef returns a new ParseError built from a format string.
func Parsef(format string, a ...interface{}) error {
	return &parseError{msg: fmt.Sprintf(format, a...)}
}

// WrapParse returns a new ParseError that wraps cause.
func WrapParse(cause error, msg string) error {
	return &parseError{msg: msg, wrap: cause}
}

// IsParse reports whether err is a ParseError (directly, not via Unwrap).
func IsParse(err error) bool {
	_, ok := err.(*parseError)
	return ok
}

// loadError reports that a rule-table blob could not be loaded: missing
// file, bad envelope, version mismatch, or truncated/corrupt payload. It is
// always fatal to the Load call that produced it.
type loadError struct {
	msg  string
	wrap error
}

func (e *loadError) Error() string { return e.msg }
func (e *loadError) Unwrap() error { return e.wrap }

// Load returns a new LoadError with the given message.
func Load(msg string) error {
	return &loadError{msg: msg}
}

// WrapLoad returns a new LoadError that wraps cause.
func WrapLoad(cause error, msg string) error {
	return &loadError{msg: msg, wrap: cause}
}

// IsLoad reports whether err is a LoadError.
func IsLoad(err error) bool {
	_, ok := err.(*loadError)
	return ok
}
