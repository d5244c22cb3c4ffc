package bit

import (
	"testing"
)

func TestMask(t *testing.T) {
	tests := []struct {
		width    uint
		expected uint32
	}{
		{1, 0x1},
		{8, 0xFF},
		{16, 0xFFFF},
		{24, 0xFFFFFF},
		{32, 0xFFFFFFFF},
		{40, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		result := Mask(tt.width)
		if result != tt.expected {
			t.Errorf("Mask(%d) = %X; want %X", tt.width, result, tt.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		value    uint32
		width    uint
		expected uint32
	}{
		{0x1FF, 8, 0xFF},
		{0x12345678, 16, 0x5678},
		{0xFFFFFFFF, 32, 0xFFFFFFFF},
		{0x80, 8, 0x80},
		{0x100, 8, 0x00},
	}

	for _, tt := range tests {
		result := Truncate(tt.value, tt.width)
		if result != tt.expected {
			t.Errorf("Truncate(%X, %d) = %X; want %X", tt.value, tt.width, result, tt.expected)
		}
	}
}

func TestIsSet(t *testing.T) {
	tests := []struct {
		index    uint
		value    uint32
		expected bool
	}{
		{0, 0x1, true},
		{0, 0x2, false},
		{7, 0x80, true},
		{15, 0x8000, true},
		{31, 0x80000000, true},
		{31, 0x7FFFFFFF, false},
	}

	for _, tt := range tests {
		result := IsSet(tt.index, tt.value)
		if result != tt.expected {
			t.Errorf("IsSet(%d, %X) = %v; want %v", tt.index, tt.value, result, tt.expected)
		}
	}
}
