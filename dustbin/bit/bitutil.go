package bit

// Mask returns a mask covering the low width bits of a 32-bit word.
// Widths of 32 or more cover the whole word.
func Mask(width uint) uint32 {
	if width >= 32 {
		return 0xFFFFFFFF
	}
	return (1 << width) - 1
}

// Truncate clips a value to its low width bits.
func Truncate(value uint32, width uint) uint32 {
	return value & Mask(width)
}

// IsSet will check if the bit at the specified index is set to 1 or not.
func IsSet(index uint, value uint32) bool {
	return ((value >> index) & 1) == 1
}
