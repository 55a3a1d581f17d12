package codec

import "errors"

var (
	ErrInvalidWidth   = errors.New("invalid field width")
	ErrInvalidLayout  = errors.New("invalid layout")
	ErrUnknownField   = errors.New("unknown field")
	ErrDuplicateField = errors.New("duplicate field")
)
