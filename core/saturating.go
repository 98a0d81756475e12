package core

import "math"

// Clip symmetrically clips x into [-bound, bound], inclusive at both ends.
func Clip(x, bound int32) int32 {
	if x > bound {
		return bound
	}
	if x < -bound {
		return -bound
	}
	return x
}

// SatAddI8 adds delta to x, clamping the result to [lo, hi]. delta is
// expected to be small (±1 in every call site in this engine) but the
// clamp is general.
func SatAddI8(x, delta, lo, hi int8) int8 {
	sum := int32(x) + int32(delta)
	if sum > int32(hi) {
		return hi
	}
	if sum < int32(lo) {
		return lo
	}
	return int8(sum)
}

// SatSubI8 subtracts delta from x, clamping to [lo, hi].
func SatSubI8(x, delta, lo, hi int8) int8 {
	return SatAddI8(x, -delta, lo, hi)
}

// SatIncI16 increments the magnitude of w by one, saturating at the int16
// bounds and preserving sign. A zero weight is treated as non-negative and
// becomes +1.
func SatIncI16(w int16) int16 {
	if w >= 0 {
		if w == math.MaxInt16 {
			return w
		}
		return w + 1
	}
	if w == math.MinInt16 {
		return w
	}
	return w - 1
}

// StepTowardZero moves w one step toward zero; w==0 stays at 0.
func StepTowardZero(w int16) int16 {
	if w > 0 {
		return w - 1
	}
	if w < 0 {
		return w + 1
	}
	return 0
}
