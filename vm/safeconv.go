package vm

import (
	"fmt"
	"math"
)

// SafeInt32ToUint32 converts a non-negative int32 to uint32, rejecting
// negative input. Ported from the teacher's vm/safeconv.go.
func SafeInt32ToUint32(v int32) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("cannot convert negative int32 %d to uint32", v)
	}
	return uint32(v), nil
}

// SafeIntToUint32 converts an int to uint32, rejecting negative or
// out-of-range input.
func SafeIntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("cannot convert negative int %d to uint32", v)
	}
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("int value %d exceeds uint32 maximum", v)
	}
	return uint32(v), nil
}

// SafeInt64ToUint32 converts an int64 to uint32, rejecting negative or
// out-of-range input.
func SafeInt64ToUint32(v int64) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("cannot convert negative int64 %d to uint32", v)
	}
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("int64 value %d exceeds uint32 maximum", v)
	}
	return uint32(v), nil
}

// AsInt32 reinterprets the bit pattern of v as a signed 32-bit value, for
// display purposes only (no range check: the bit pattern is preserved).
func AsInt32(v uint32) int32 {
	return int32(v)
}
