package ovba

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedStream is returned when the dir stream ends in the middle
	// of a record. Always fatal: the cursor position can no longer be
	// trusted and the file is corrupt or not a dir stream at all.
	ErrTruncatedStream = errors.New("truncated dir stream")

	// ErrBadCompression is returned for a compressed container with a bad
	// signature byte or chunk header.
	ErrBadCompression = errors.New("invalid compressed container")

	// ErrUnsupportedCodePage is returned by ResolveCodePage for a code page
	// with no known text encoding.
	ErrUnsupportedCodePage = errors.New("unsupported code page")
)

// UnexpectedValueError reports a field that must equal a fixed constant but
// did not. It is fatal only in strict mode; in relaxed mode the same
// mismatch becomes a Diagnostic and parsing continues.
type UnexpectedValueError struct {
	Field    string
	Expected uint32
	Observed uint32
	Offset   int
}

func (e *UnexpectedValueError) Error() string {
	return fmt.Sprintf("unexpected %s at offset %d: expected 0x%04X, got 0x%04X",
		e.Field, e.Offset, e.Expected, e.Observed)
}

// UnknownTagError reports an unrecognized record tag in the reference
// array. Always fatal, independent of mode: the grammar provides no
// declared length for an unknown record, so there is no safe way to skip
// it.
type UnknownTagError struct {
	Tag    uint16
	Offset int
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown reference record tag 0x%04X at offset %d", e.Tag, e.Offset)
}
