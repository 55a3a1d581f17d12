// Package bitstream provides a cursor over an in-memory byte slice allowing
// bit-granularity access to the buffer, following the MSB pattern, where
// most-significant bits are read/written first.
//
// A single bit operation never spans two bytes: callers decompose wider fields
// into operations that each stay within the current byte.
//
//	byte   0               1
//	      +---------------+---------------+-
//	      |7 6 5 4 3 2 1 0|7 6 5 4 3 2 1 0|
//	      +---------------+---------------+-
//	offset 0 1 2 3 4 5 6 7 0 1 2 3 4 5 6 7
package bitstream

import "io"

// BitReader reads amounts of data smaller than a single byte.
type BitReader interface {
	ReadBit() (uint8, error)
	ReadBool() (bool, error)
	ReadBits(numBits uint) (uint8, error)
}

// BitWriter writes amounts of data smaller than a single byte.
type BitWriter interface {
	WriteBit(bit uint8) error
	WriteBool(b bool) error
	WriteBits(v uint8, numBits uint) error
}

// Sized reports the number of whole bytes available for byte-level access.
type Sized interface {
	BytesRemaining() int
}

// Peeker returns the byte under the cursor without advancing it.
type Peeker interface {
	PeekByte() (byte, error)
}

// Buffer is the read side of a bit-addressable buffer.
type Buffer interface {
	io.Reader
	BitReader
	Sized
	Peeker
}

// MutableBuffer is a Buffer which can also be written to.
type MutableBuffer interface {
	Buffer
	io.Writer
	BitWriter
}

var (
	_ MutableBuffer = (*Cursor)(nil)
	_ io.ByteReader = (*Cursor)(nil)
	_ io.ByteWriter = (*Cursor)(nil)
	_ io.Seeker     = (*Cursor)(nil)
)
