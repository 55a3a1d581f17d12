package bitstream_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/bitcursor/bitstream"
)

var (
	NewCursor = bitstream.NewCursor
	KindOf    = bitstream.KindOf
)

func TestRead_Mixed(t *testing.T) {
	req := require.New(t)

	c := NewCursor([]byte{1, 2, 3, 0b11110000, 0b00001111})
	req.Equal(5, c.BytesRemaining())

	buf := make([]byte, 1)
	for i, remaining := range []int{4, 3, 2} {
		n, err := c.Read(buf)
		req.NoError(err)
		req.Equal(1, n)
		req.Equal(byte(i+1), buf[0])
		req.Equal(remaining, c.BytesRemaining())
	}

	bit, err := c.ReadBit()
	req.NoError(err)
	req.Equal(uint8(1), bit)

	b, err := c.ReadBool()
	req.NoError(err)
	req.True(b)

	v, err := c.ReadBits(4)
	req.NoError(err)
	req.Equal(uint8(0b1100), v)
	// Only one whole byte is left.
	req.Equal(1, c.BytesRemaining())

	// Can't read a byte while in the middle of one.
	_, err = c.Read(buf)
	req.ErrorIs(err, bitstream.ErrNotAligned)
	req.Equal(1, c.BytesRemaining())

	v, err = c.ReadBits(2)
	req.NoError(err)
	req.Equal(uint8(0), v)
	req.Equal(1, c.BytesRemaining())

	v, err = c.ReadBits(8)
	req.NoError(err)
	req.Equal(uint8(0b00001111), v)
	req.Equal(0, c.BytesRemaining())

	_, err = c.ReadBit()
	req.ErrorIs(err, bitstream.ErrOutOfRange)
	_, err = c.Read(buf)
	req.Equal(io.EOF, err)
}

func TestWrite_Bits(t *testing.T) {
	req := require.New(t)

	c := NewCursor([]byte{0, 0, 0, 0})
	req.NoError(c.WriteBit(1))
	req.NoError(c.WriteBit(1))
	req.NoError(c.WriteBit(1))
	req.NoError(c.WriteBool(true))

	req.Equal(byte(0b11110000), c.Bytes()[0])
	req.Equal(bitstream.Position{Byte: 0, Bit: 4}, c.Position())
}

func TestWrite_BitsPreservesNeighbours(t *testing.T) {
	req := require.New(t)

	c := NewCursor([]byte{0b10101010, 0, 0, 0})
	req.NoError(c.WriteBits(0b111, 3))
	req.NoError(c.WriteBits(0b10101, 5))
	req.NoError(c.WriteBits(2, 2))

	buf := c.Take()
	req.Equal(byte(0b11110101), buf[0])
	req.Equal(byte(0b10000000), buf[1])
}

func TestWrite_BitsClearsSpan(t *testing.T) {
	req := require.New(t)

	c := NewCursor([]byte{0xFF})
	req.NoError(c.WriteBits(0, 3))
	req.Equal(byte(0b00011111), c.Bytes()[0])

	c = NewCursor([]byte{0xFF})
	_, err := c.ReadBits(2)
	req.NoError(err)
	req.NoError(c.WriteBits(0, 3))
	req.Equal(byte(0b11000111), c.Bytes()[0])

	c = NewCursor([]byte{0})
	_, err = c.ReadBits(7)
	req.NoError(err)
	req.NoError(c.WriteBit(0xFE))
	req.Equal(byte(0), c.Bytes()[0])
}

func TestWrite_BitsTruncatesValue(t *testing.T) {
	req := require.New(t)

	c := NewCursor([]byte{0})
	req.NoError(c.WriteBits(0xFF, 2))
	req.NoError(c.WriteBits(0b11111010, 3))
	req.Equal(byte(0b11010000), c.Bytes()[0])
}

func TestBits_RoundTrip(t *testing.T) {
	req := require.New(t)

	for start := uint(0); start < 8; start++ {
		for numBits := uint(1); start+numBits <= 8; numBits++ {
			for v := 0; v < 256; v++ {
				c := NewCursor([]byte{0x5A})
				if start > 0 {
					_, err := c.ReadBits(start)
					req.NoError(err)
				}
				req.NoError(c.WriteBits(uint8(v), numBits))

				_, err := c.Seek(0, io.SeekStart)
				req.NoError(err)
				if start > 0 {
					_, err = c.ReadBits(start)
					req.NoError(err)
				}
				got, err := c.ReadBits(numBits)
				req.NoError(err)
				req.Equal(uint8(v)&uint8(uint16(1)<<numBits-1), got, "start=%d numBits=%d v=%d", start, numBits, v)
			}
		}
	}
}

func TestBytes_RoundTrip(t *testing.T) {
	req := require.New(t)

	data := []byte("a string!")
	c := NewCursor(make([]byte, len(data)))

	n, err := c.Write(data[:4])
	req.NoError(err)
	req.Equal(4, n)
	for _, b := range data[4:] {
		req.NoError(c.WriteByte(b))
	}
	req.Equal(0, c.BytesRemaining())

	_, err = c.Seek(0, io.SeekStart)
	req.NoError(err)
	got, err := io.ReadAll(c)
	req.NoError(err)
	req.Equal(data, got)
}

func TestBytesRemaining(t *testing.T) {
	req := require.New(t)

	c := NewCursor([]byte{0xAA, 0xBB})
	req.Equal(2, c.BytesRemaining())

	_, err := c.ReadBit()
	req.NoError(err)
	req.Equal(1, c.BytesRemaining())

	_, err = c.ReadBits(7)
	req.NoError(err)
	req.Equal(1, c.BytesRemaining())

	b, err := c.ReadByte()
	req.NoError(err)
	req.Equal(byte(0xBB), b)
	req.Equal(0, c.BytesRemaining())
}

func TestAlignment(t *testing.T) {
	req := require.New(t)

	for offset := uint(1); offset < 8; offset++ {
		c := NewCursor([]byte{0xFF, 0xFF, 0xFF})
		_, err := c.ReadBits(offset)
		req.NoError(err)

		_, err = c.Read(make([]byte, 1))
		req.ErrorIs(err, bitstream.ErrNotAligned)
		_, err = c.Write([]byte{0})
		req.ErrorIs(err, bitstream.ErrNotAligned)
		_, err = c.ReadByte()
		req.ErrorIs(err, bitstream.ErrNotAligned)
		req.ErrorIs(c.WriteByte(0), bitstream.ErrNotAligned)
		req.Equal(bitstream.KindNotAligned, KindOf(err))

		// Failed operations don't move the cursor.
		req.Equal(bitstream.Position{Byte: 0, Bit: uint8(offset)}, c.Position())
		req.Equal([]byte{0xFF, 0xFF, 0xFF}, c.Bytes())
	}
}

func TestBoundary(t *testing.T) {
	req := require.New(t)

	c := NewCursor([]byte{0b10110110, 0})
	_, err := c.ReadBits(4)
	req.NoError(err)

	_, err = c.ReadBits(5)
	req.ErrorIs(err, bitstream.ErrCrossesBoundary)
	req.ErrorIs(c.WriteBits(0, 5), bitstream.ErrCrossesBoundary)
	_, err = c.ReadBits(9)
	req.ErrorIs(err, bitstream.ErrCrossesBoundary)

	var cerr *bitstream.Error
	req.True(errors.As(err, &cerr))
	req.Equal("read bits", cerr.Op)
	req.Equal(uint(9), cerr.NumBits)
	req.Equal(bitstream.Position{Byte: 0, Bit: 4}, cerr.Pos)

	v, err := c.ReadBits(4)
	req.NoError(err)
	req.Equal(uint8(0b0110), v)
	req.Equal(bitstream.Position{Byte: 1, Bit: 0}, c.Position())
}

func TestZeroBits(t *testing.T) {
	req := require.New(t)

	c := NewCursor(nil)
	v, err := c.ReadBits(0)
	req.NoError(err)
	req.Equal(uint8(0), v)
	req.NoError(c.WriteBits(0xFF, 0))
	req.Equal(bitstream.Position{}, c.Position())
}

func TestOutOfRange(t *testing.T) {
	req := require.New(t)

	c := NewCursor(nil)
	_, err := c.ReadBit()
	req.ErrorIs(err, bitstream.ErrOutOfRange)
	req.ErrorIs(err, io.EOF)
	_, err = c.ReadBool()
	req.ErrorIs(err, bitstream.ErrOutOfRange)
	_, err = c.ReadBits(3)
	req.ErrorIs(err, bitstream.ErrOutOfRange)
	req.ErrorIs(c.WriteBit(1), bitstream.ErrOutOfRange)
	req.ErrorIs(c.WriteBits(1, 8), bitstream.ErrOutOfRange)
	_, err = c.PeekByte()
	req.ErrorIs(err, bitstream.ErrOutOfRange)
	req.ErrorIs(c.WriteByte(1), bitstream.ErrOutOfRange)

	n, err := c.Read(make([]byte, 4))
	req.Equal(0, n)
	req.Equal(io.EOF, err)

	n, err = c.Write(nil)
	req.NoError(err)
	req.Equal(0, n)
}

func TestWrite_Short(t *testing.T) {
	req := require.New(t)

	c := NewCursor(make([]byte, 3))
	n, err := c.Write([]byte{1, 2, 3, 4, 5})
	req.ErrorIs(err, bitstream.ErrOutOfRange)
	req.Equal(3, n)
	req.Equal([]byte{1, 2, 3}, c.Take())
}

func TestRead_Short(t *testing.T) {
	req := require.New(t)

	c := NewCursor([]byte{1, 2, 3})
	buf := make([]byte, 5)
	n, err := c.Read(buf)
	req.NoError(err)
	req.Equal(3, n)
	req.Equal([]byte{1, 2, 3}, buf[:n])

	n, err = c.Read(buf)
	req.Equal(0, n)
	req.Equal(io.EOF, err)
}

func TestPeek(t *testing.T) {
	req := require.New(t)

	c := NewCursor([]byte{0b11001010, 0x7F})
	b, err := c.PeekByte()
	req.NoError(err)
	req.Equal(byte(0b11001010), b)

	_, err = c.ReadBits(3)
	req.NoError(err)

	// Peek sees the raw byte, including bits already consumed.
	b, err = c.PeekByte()
	req.NoError(err)
	req.Equal(byte(0b11001010), b)
	req.Equal(bitstream.Position{Byte: 0, Bit: 3}, c.Position())

	_, err = c.ReadBits(5)
	req.NoError(err)
	b, err = c.PeekByte()
	req.NoError(err)
	req.Equal(byte(0x7F), b)
}

func TestSeek(t *testing.T) {
	req := require.New(t)

	c := NewCursor([]byte{0x0F, 0xF0, 0xAA, 0x55})
	_, err := c.ReadBits(5)
	req.NoError(err)

	off, err := c.Seek(1, io.SeekCurrent)
	req.NoError(err)
	req.Equal(int64(1), off)
	req.True(c.Aligned())

	bit, err := c.ReadBit()
	req.NoError(err)
	req.Equal(uint8(1), bit)

	off, err = c.Seek(-1, io.SeekEnd)
	req.NoError(err)
	req.Equal(int64(3), off)
	req.Equal(bitstream.Position{Byte: 3}, c.Position())

	off, err = c.Seek(4, io.SeekStart)
	req.NoError(err)
	req.Equal(int64(4), off)
	req.Equal(0, c.BytesRemaining())

	_, err = c.ReadBits(2)
	req.NoError(c.WriteBits(0, 0))
	req.ErrorIs(err, bitstream.ErrOutOfRange)

	for _, tc := range []struct {
		offset int64
		whence int
	}{
		{-1, io.SeekStart},
		{5, io.SeekStart},
		{1, io.SeekEnd},
		{-5, io.SeekCurrent},
		{0, 42},
	} {
		_, err = c.Seek(tc.offset, tc.whence)
		req.ErrorIs(err, bitstream.ErrOutOfRange)
		req.Equal(bitstream.Position{Byte: 4}, c.Position())
	}
}

func TestTake(t *testing.T) {
	req := require.New(t)

	buf := []byte{0, 0}
	c := NewCursor(buf)
	req.NoError(c.WriteBits(0b101, 3))

	out := c.Take()
	req.Equal([]byte{0b10100000, 0}, out)
	req.Equal(0, c.Len())
	req.Equal(bitstream.Position{}, c.Position())

	_, err := c.ReadBit()
	req.ErrorIs(err, bitstream.ErrOutOfRange)

	c.Reset(out)
	v, err := c.ReadBits(3)
	req.NoError(err)
	req.Equal(uint8(0b101), v)
}
