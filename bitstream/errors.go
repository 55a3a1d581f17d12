package bitstream

import (
	"errors"
	"fmt"
	"io"
)

// ErrorKind is the closed set of failures a Cursor can report.
type ErrorKind uint8

const (
	KindNotAligned ErrorKind = 1 + iota
	KindCrossesBoundary
	KindOutOfRange
	KindInvalidMask
)

var kinds = []string{
	"not byte-aligned",
	"operation would cross byte boundary",
	"position out of range",
	"invalid mask parameters",
}

var (
	ErrNotAligned      error = KindNotAligned
	ErrCrossesBoundary error = KindCrossesBoundary
	ErrOutOfRange      error = KindOutOfRange
	ErrInvalidMask     error = KindInvalidMask
)

func (k ErrorKind) String() string {
	if k == 0 || int(k) > len(kinds) {
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
	return kinds[k-1]
}

func (k ErrorKind) Error() string {
	return k.String()
}

// Is reports an out-of-range failure as io.EOF as well, so callers may treat
// running off the end of the buffer as the end of the stream.
func (k ErrorKind) Is(target error) bool {
	return k == KindOutOfRange && target == io.EOF
}

// Error records a failed cursor operation and the position it was attempted at.
type Error struct {
	Op      string
	Kind    ErrorKind
	Pos     Position
	NumBits uint
}

func (err *Error) Error() string {
	if err.NumBits > 0 {
		return fmt.Sprintf("bitstream: %v %d bits at %v: %v", err.Op, err.NumBits, err.Pos, err.Kind)
	}
	return fmt.Sprintf("bitstream: %v at %v: %v", err.Op, err.Pos, err.Kind)
}

func (err *Error) Unwrap() error {
	return err.Kind
}

// KindOf returns the ErrorKind carried by err, or 0 if err did not originate
// from this package.
func KindOf(err error) ErrorKind {
	var k ErrorKind
	if errors.As(err, &k) {
		return k
	}
	return 0
}
