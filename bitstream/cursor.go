package bitstream

import (
	"fmt"
	"io"
)

// Position is a cursor location: Byte indexes into the buffer and Bit is the
// number of bits of that byte already consumed, counting from the MSB.
type Position struct {
	Byte int
	Bit  uint8
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Byte, p.Bit)
}

// Cursor reads and writes a fixed-size byte slice at both byte and bit
// granularity.
//
// Whole-byte operations (Read, Write, ReadByte, WriteByte) are only allowed
// while the cursor is byte-aligned. Bit operations read or write 1 to 8 bits of
// the current byte and fail rather than continue into the next byte.
//
// ⚠️ Cursor is NOT thread-safe.
type Cursor struct {
	buf []byte
	pos int
	bit uint8
}

// NewCursor returns a Cursor positioned at the first bit of buf.
// The Cursor takes ownership of buf; writes modify it in place.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Reset points the cursor at the first bit of buf.
func (c *Cursor) Reset(buf []byte) {
	c.buf = buf
	c.pos = 0
	c.bit = 0
}

// Position returns the current cursor location.
func (c *Cursor) Position() Position {
	return Position{Byte: c.pos, Bit: c.bit}
}

// Aligned reports whether the cursor sits on a byte boundary.
func (c *Cursor) Aligned() bool {
	return c.bit == 0
}

// Len returns the size of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// BytesRemaining returns the number of whole bytes left for byte-level access.
// A partially consumed byte is not counted.
func (c *Cursor) BytesRemaining() int {
	if c.bit == 0 {
		return len(c.buf) - c.pos
	}
	return len(c.buf) - c.pos - 1
}

// Bytes returns the underlying buffer, including any data already consumed.
func (c *Cursor) Bytes() []byte {
	return c.buf
}

// Take returns the underlying buffer and detaches it from the cursor.
// The cursor is left over an empty buffer, so later reads and writes fail
// until Reset.
func (c *Cursor) Take() []byte {
	buf := c.buf
	c.Reset(nil)
	return buf
}

// Seek implements io.Seeker. The new offset is a byte offset, and the bit
// offset is reset to 0. Seeking before the start or past the end of the buffer
// fails and leaves the position unchanged.
func (c *Cursor) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(c.pos) + offset
	case io.SeekEnd:
		abs = int64(len(c.buf)) + offset
	default:
		return 0, c.fail("seek", KindOutOfRange, 0)
	}
	if abs < 0 || abs > int64(len(c.buf)) {
		return 0, c.fail("seek", KindOutOfRange, 0)
	}

	c.pos = int(abs)
	c.bit = 0
	return abs, nil
}

// Read implements io.Reader. It returns io.EOF once the buffer is exhausted.
func (c *Cursor) Read(p []byte) (int, error) {
	if c.bit != 0 {
		return 0, c.fail("read", KindNotAligned, 0)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if c.pos >= len(c.buf) {
		return 0, io.EOF
	}

	n := copy(p, c.buf[c.pos:])
	c.pos += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (c *Cursor) ReadByte() (byte, error) {
	if c.bit != 0 {
		return 0, c.fail("read byte", KindNotAligned, 0)
	}
	if c.pos >= len(c.buf) {
		return 0, io.EOF
	}

	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// Write implements io.Writer. The buffer never grows: bytes which don't fit
// are dropped, and the short count is returned along with ErrOutOfRange.
func (c *Cursor) Write(p []byte) (int, error) {
	if c.bit != 0 {
		return 0, c.fail("write", KindNotAligned, 0)
	}

	n := copy(c.buf[c.pos:], p)
	c.pos += n
	if n < len(p) {
		return n, c.fail("write", KindOutOfRange, 0)
	}
	return n, nil
}

// WriteByte implements io.ByteWriter.
func (c *Cursor) WriteByte(b byte) error {
	if c.bit != 0 {
		return c.fail("write byte", KindNotAligned, 0)
	}
	if c.pos >= len(c.buf) {
		return c.fail("write byte", KindOutOfRange, 0)
	}

	c.buf[c.pos] = b
	c.pos++
	return nil
}

// PeekByte returns the byte under the cursor without advancing.
// The whole byte is returned even if some of its bits were already consumed.
func (c *Cursor) PeekByte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, c.fail("peek", KindOutOfRange, 0)
	}
	return c.buf[c.pos], nil
}

// ReadBit reads the next single bit, MSB first. The result is 0 or 1.
func (c *Cursor) ReadBit() (uint8, error) {
	return c.readBits("read bit", 1)
}

// ReadBool reads the next single bit as a bool.
func (c *Cursor) ReadBool() (bool, error) {
	bit, err := c.readBits("read bool", 1)
	return bit != 0, err
}

// ReadBits reads the next numBits of the current byte and returns them in the
// least-significant bits of the result. It fails with ErrCrossesBoundary if
// fewer than numBits remain in the current byte.
func (c *Cursor) ReadBits(numBits uint) (uint8, error) {
	return c.readBits("read bits", numBits)
}

// WriteBit writes the least-significant bit of bit at the cursor.
func (c *Cursor) WriteBit(bit uint8) error {
	return c.writeBits("write bit", bit, 1)
}

// WriteBool writes b as a single bit.
func (c *Cursor) WriteBool(b bool) error {
	var bit uint8
	if b {
		bit = 1
	}
	return c.writeBits("write bool", bit, 1)
}

// WriteBits writes the numBits least-significant bits of v into the current
// byte, leaving the byte's other bits untouched. Higher bits of v are ignored.
// It fails with ErrCrossesBoundary if fewer than numBits remain in the current
// byte.
func (c *Cursor) WriteBits(v uint8, numBits uint) error {
	return c.writeBits("write bits", v, numBits)
}

func (c *Cursor) readBits(op string, numBits uint) (uint8, error) {
	mask, shift, err := c.span(op, numBits)
	if err != nil || mask == 0 {
		return 0, err
	}

	v := (c.buf[c.pos] & mask) >> shift
	c.advance(numBits)
	return v, nil
}

func (c *Cursor) writeBits(op string, v uint8, numBits uint) error {
	mask, shift, err := c.span(op, numBits)
	if err != nil || mask == 0 {
		return err
	}

	c.buf[c.pos] = c.buf[c.pos]&^mask | (v<<shift)&mask
	c.advance(numBits)
	return nil
}

// span validates a numBits-wide operation at the cursor and returns the mask
// of the affected bits and the shift aligning them to the LSB. A zero-width
// span yields a zero mask and touches nothing.
func (c *Cursor) span(op string, numBits uint) (mask uint8, shift uint, err error) {
	if numBits > 8-uint(c.bit) {
		return 0, 0, c.fail(op, KindCrossesBoundary, numBits)
	}
	if numBits == 0 {
		return 0, 0, nil
	}
	if c.pos >= len(c.buf) {
		return 0, 0, c.fail(op, KindOutOfRange, numBits)
	}

	mask, err = Mask(uint(c.bit), numBits)
	if err != nil {
		return 0, 0, c.fail(op, KindInvalidMask, numBits)
	}
	return mask, 8 - uint(c.bit) - numBits, nil
}

func (c *Cursor) advance(numBits uint) {
	c.bit += uint8(numBits)
	if c.bit == 8 {
		c.bit = 0
		c.pos++
	}
}

func (c *Cursor) fail(op string, kind ErrorKind, numBits uint) error {
	return &Error{Op: op, Kind: kind, Pos: c.Position(), NumBits: numBits}
}
