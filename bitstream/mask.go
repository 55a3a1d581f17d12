package bitstream

// Mask returns a byte mask selecting numBits bits starting at bit offset start,
// where offset 0 is the MSB and offset 7 is the LSB.
// E.g. Mask(2, 3) is 0b00111000.
func Mask(start, numBits uint) (uint8, error) {
	if start > 8 || numBits > 8 || start+numBits > 8 {
		return 0, ErrInvalidMask
	}
	return uint8((uint16(1)<<numBits - 1) << (8 - start - numBits)), nil
}
