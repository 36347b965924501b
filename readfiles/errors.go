package readfiles

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Each concrete error type below matches exactly one.
var (
	ErrIO                = errors.New("i/o error")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMalformedData     = errors.New("malformed data")
)

// IOError is returned when a source cannot be opened or read.
type IOError struct {
	Path string
	Op   string // "open", "read" or "write"
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("unable to %s %s: %v", e.Op, displayPath(e.Path), e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// UnsupportedFormatError is returned for input that is recognisable but
// encodes a variant this package does not decode, e.g. binary STL.
type UnsupportedFormatError struct {
	Path   string
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	msg := fmt.Sprintf("%s: %s is not supported", displayPath(e.Path), e.Format)
	if e.Format == STLBinary.String() {
		msg += ", convert the file to ASCII STL"
	}
	return msg
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }

// MalformedDataError reports structurally invalid content within a
// recognised format. Token is the 1-based position of the offending token,
// zero when the fault is not tied to one.
type MalformedDataError struct {
	Path  string
	Token int
	Msg   string
	Err   error
}

func (e *MalformedDataError) Error() string {
	msg := displayPath(e.Path)
	if e.Token > 0 {
		msg += fmt.Sprintf(": token %d", e.Token)
	}
	msg += ": " + e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedDataError) Unwrap() error { return e.Err }

func (e *MalformedDataError) Is(target error) bool { return target == ErrMalformedData }

func displayPath(path string) string {
	if path == "" {
		return "<input>"
	}
	return path
}

// withPath stamps a file name onto an error produced by one of the
// io.Reader based parsers.
func withPath(err error, path string) error {
	var (
		ioErr  *IOError
		fmtErr *UnsupportedFormatError
		badErr *MalformedDataError
	)
	switch {
	case errors.As(err, &ioErr):
		ioErr.Path = path
	case errors.As(err, &fmtErr):
		fmtErr.Path = path
	case errors.As(err, &badErr):
		badErr.Path = path
	}
	return err
}
