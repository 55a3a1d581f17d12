package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/spacemeshos/bitcursor/bitstream"
)

const MaxFieldBits = 64

// positioner is implemented by buffers which expose their bit position,
// e.g. *bitstream.Cursor.
type positioner interface {
	Position() bitstream.Position
}

// FieldReader reads unsigned fields of 1 to 64 bits from a bitstream.Buffer,
// in Big-Endian bit order, regardless of the buffer alignment.
// Each field is split into operations which never cross a byte boundary:
// bit reads up to the next boundary, whole-byte reads while aligned, and a
// final bit read for the remaining least-significant bits.
type FieldReader struct {
	buf  bitstream.Buffer
	bit  uint
	read uint
	tmp  [8]byte
}

// NewFieldReader returns a FieldReader over buf. If buf doesn't report its
// position, it is assumed to be byte-aligned.
func NewFieldReader(buf bitstream.Buffer) *FieldReader {
	return &FieldReader{buf: buf}
}

// BitsRead returns the number of bits read through fr so far.
func (fr *FieldReader) BitsRead() uint {
	return fr.read
}

// ReadUintBE reads the next numBits from the buffer as an uint64.
func (fr *FieldReader) ReadUintBE(numBits uint) (uint64, error) {
	if numBits == 0 || numBits > MaxFieldBits {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWidth, numBits)
	}

	fr.sync()
	var val uint64
	for left := numBits; left > 0; {
		if fr.bit == 0 && left >= 8 {
			n := left / 8
			if _, err := io.ReadFull(fr.buf, fr.tmp[:n]); err != nil {
				return 0, fmt.Errorf("read %d-bit field at bit %d: %w", numBits, fr.read, err)
			}
			for _, b := range fr.tmp[:n] {
				val = val<<8 | uint64(b)
			}
			fr.advance(n * 8)
			left -= n * 8
			continue
		}

		n := min(8-fr.bit, left)
		v, err := fr.buf.ReadBits(n)
		if err != nil {
			return 0, fmt.Errorf("read %d-bit field at bit %d: %w", numBits, fr.read, err)
		}
		val = val<<n | uint64(v)
		fr.advance(n)
		left -= n
	}

	return val, nil
}

func (fr *FieldReader) sync() {
	if p, ok := fr.buf.(positioner); ok {
		fr.bit = uint(p.Position().Bit)
	}
}

func (fr *FieldReader) advance(numBits uint) {
	fr.bit = (fr.bit + numBits) % 8
	fr.read += numBits
}

// FieldWriter writes unsigned fields of 1 to 64 bits into a
// bitstream.MutableBuffer, in Big-Endian bit order, regardless of the buffer
// alignment. Only the numBits least-significant bits of each value are written.
type FieldWriter struct {
	buf     bitstream.MutableBuffer
	bit     uint
	written uint
	logger  *zap.Logger
	tmp     [8]byte
}

// NewFieldWriter returns a FieldWriter over buf. If buf doesn't report its
// position, it is assumed to be byte-aligned.
func NewFieldWriter(buf bitstream.MutableBuffer, opts ...Option) *FieldWriter {
	return &FieldWriter{buf: buf, logger: applyOptions(opts).logger}
}

// BitsWritten returns the number of bits written through fw so far.
func (fw *FieldWriter) BitsWritten() uint {
	return fw.written
}

// WriteUintBE writes the numBits least-significant bits of val.
func (fw *FieldWriter) WriteUintBE(val uint64, numBits uint) error {
	if numBits == 0 || numBits > MaxFieldBits {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, numBits)
	}
	if numBits < MaxFieldBits && val>>numBits != 0 {
		fw.logger.Debug("truncating value to field width",
			zap.Uint64("value", val),
			zap.Uint("bits", numBits),
		)
	}

	fw.sync()
	for left := numBits; left > 0; {
		if fw.bit == 0 && left >= 8 {
			n := left / 8
			binary.BigEndian.PutUint64(fw.tmp[:], val>>(left-n*8))
			if _, err := fw.buf.Write(fw.tmp[8-n:]); err != nil {
				return fmt.Errorf("write %d-bit field at bit %d: %w", numBits, fw.written, err)
			}
			fw.advance(n * 8)
			left -= n * 8
			continue
		}

		n := min(8-fw.bit, left)
		if err := fw.buf.WriteBits(uint8(val>>(left-n)), n); err != nil {
			return fmt.Errorf("write %d-bit field at bit %d: %w", numBits, fw.written, err)
		}
		fw.advance(n)
		left -= n
	}

	return nil
}

func (fw *FieldWriter) sync() {
	if p, ok := fw.buf.(positioner); ok {
		fw.bit = uint(p.Position().Bit)
	}
}

func (fw *FieldWriter) advance(numBits uint) {
	fw.bit = (fw.bit + numBits) % 8
	fw.written += numBits
}
