// Package codec packs and unpacks fixed layouts of unsigned bit fields on top
// of the bitstream capability interfaces.
package codec

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spacemeshos/bitcursor/bitstream"
)

// Field is a named unsigned integer of 1 to 64 bits.
type Field struct {
	Name string
	Bits uint
}

// Layout is an ordered sequence of fields, packed MSB first without padding.
type Layout []Field

// Value is a decoded field, along with the bit offset (relative to the start of
// decoding) it was read from.
type Value struct {
	Field
	Uint   uint64
	Offset uint
}

// ParseLayout parses a comma-separated list of `name:bits` pairs,
// e.g. "version:4,flags:3,ext:1,length:16".
func ParseLayout(s string) (Layout, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidLayout)
	}

	var l Layout
	for _, part := range strings.Split(s, ",") {
		name, bits, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("%w: expected `name:bits`, given: %q", ErrInvalidLayout, part)
		}
		n, err := strconv.ParseUint(strings.TrimSpace(bits), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidLayout, name, err)
		}
		l = append(l, Field{Name: strings.TrimSpace(name), Bits: uint(n)})
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks that every field has a unique non-empty name and a width
// between 1 and 64 bits.
func (l Layout) Validate() error {
	if len(l) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidLayout)
	}

	seen := make(map[string]struct{}, len(l))
	for _, f := range l {
		if f.Name == "" {
			return fmt.Errorf("%w: unnamed field", ErrInvalidLayout)
		}
		if f.Bits == 0 || f.Bits > MaxFieldBits {
			return fmt.Errorf("%w: field %q: %d bits", ErrInvalidWidth, f.Name, f.Bits)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateField, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// BitLen returns the total number of bits of the layout.
func (l Layout) BitLen() uint {
	var n uint
	for _, f := range l {
		n += f.Bits
	}
	return n
}

// ByteLen returns the number of bytes needed to hold the layout.
func (l Layout) ByteLen() int {
	return int((l.BitLen() + 7) / 8)
}

func (l Layout) String() string {
	parts := make([]string, len(l))
	for i, f := range l {
		parts[i] = fmt.Sprintf("%s:%d", f.Name, f.Bits)
	}
	return strings.Join(parts, ",")
}

// Decode reads every field of l from buf, in order.
func Decode(buf bitstream.Buffer, l Layout, opts ...Option) ([]Value, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	logger := applyOptions(opts).logger

	fr := NewFieldReader(buf)
	values := make([]Value, 0, len(l))
	for _, f := range l {
		offset := fr.BitsRead()
		v, err := fr.ReadUintBE(f.Bits)
		if err != nil {
			return values, fmt.Errorf("decode field %q: %w", f.Name, err)
		}
		logger.Debug("decoded field",
			zap.String("field", f.Name),
			zap.Uint("bits", f.Bits),
			zap.Uint("offset", offset),
			zap.Uint64("value", v),
		)
		values = append(values, Value{Field: f, Uint: v, Offset: offset})
	}
	return values, nil
}

// Encode writes the fields of l into buf, in order, taking their values from
// values. Fields missing from values are written as zero; names in values which
// are not part of l are rejected before anything is written.
func Encode(buf bitstream.MutableBuffer, l Layout, values map[string]uint64, opts ...Option) error {
	if err := l.Validate(); err != nil {
		return err
	}
	for name := range values {
		if !l.has(name) {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}
	logger := applyOptions(opts).logger

	fw := NewFieldWriter(buf, opts...)
	for _, f := range l {
		offset := fw.BitsWritten()
		if err := fw.WriteUintBE(values[f.Name], f.Bits); err != nil {
			return fmt.Errorf("encode field %q: %w", f.Name, err)
		}
		logger.Debug("encoded field",
			zap.String("field", f.Name),
			zap.Uint("bits", f.Bits),
			zap.Uint("offset", offset),
			zap.Uint64("value", values[f.Name]),
		)
	}
	return nil
}

func (l Layout) has(name string) bool {
	for _, f := range l {
		if f.Name == name {
			return true
		}
	}
	return false
}
