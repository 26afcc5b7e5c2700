package vm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeInt32ToUint32(t *testing.T) {
	tests := []struct {
		input     int32
		expected  uint32
		shouldErr bool
	}{
		{0, 0, false},
		{1, 1, false},
		{math.MaxInt32, math.MaxInt32, false},
		{-1, 0, true},
		{math.MinInt32, 0, true},
	}

	for _, tt := range tests {
		result, err := SafeInt32ToUint32(tt.input)
		if tt.shouldErr {
			assert.Error(t, err, "SafeInt32ToUint32(%d) expected error", tt.input)
			continue
		}
		assert.NoError(t, err, "SafeInt32ToUint32(%d) unexpected error", tt.input)
		assert.Equal(t, tt.expected, result, "SafeInt32ToUint32(%d)", tt.input)
	}
}

func TestSafeIntToUint32(t *testing.T) {
	tests := []struct {
		input     int
		expected  uint32
		shouldErr bool
	}{
		{0, 0, false},
		{1, 1, false},
		{math.MaxUint32, math.MaxUint32, false},
		{-1, 0, true},
	}

	for _, tt := range tests {
		result, err := SafeIntToUint32(tt.input)
		if tt.shouldErr {
			assert.Error(t, err, "SafeIntToUint32(%d) expected error", tt.input)
			continue
		}
		assert.NoError(t, err, "SafeIntToUint32(%d) unexpected error", tt.input)
		assert.Equal(t, tt.expected, result, "SafeIntToUint32(%d)", tt.input)
	}
}

func TestSafeInt64ToUint32(t *testing.T) {
	tests := []struct {
		input     int64
		expected  uint32
		shouldErr bool
	}{
		{0, 0, false},
		{1, 1, false},
		{math.MaxUint32, math.MaxUint32, false},
		{-1, 0, true},
		{math.MaxUint32 + 1, 0, true},
	}

	for _, tt := range tests {
		result, err := SafeInt64ToUint32(tt.input)
		if tt.shouldErr {
			assert.Error(t, err, "SafeInt64ToUint32(%d) expected error", tt.input)
			continue
		}
		assert.NoError(t, err, "SafeInt64ToUint32(%d) unexpected error", tt.input)
		assert.Equal(t, tt.expected, result, "SafeInt64ToUint32(%d)", tt.input)
	}
}

func TestAsInt32(t *testing.T) {
	tests := []struct {
		input    uint32
		expected int32
	}{
		{0, 0},
		{1, 1},
		{0x7FFFFFFF, 0x7FFFFFFF},
		{0x80000000, -2147483648},
		{0xFFFFFFFF, -1},
	}

	for _, tt := range tests {
		result := AsInt32(tt.input)
		assert.Equal(t, tt.expected, result, "AsInt32(0x%X)", tt.input)
	}
}
