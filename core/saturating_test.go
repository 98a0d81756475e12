package core

import (
	"math"
	"testing"
)

func TestClip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		x     int32
		bound int32
		want  int32
	}{
		{"within bounds", 3, 5, 3},
		{"at upper bound", 5, 5, 5},
		{"above upper bound", 9, 5, 5},
		{"at lower bound", -5, 5, -5},
		{"below lower bound", -9, 5, -5},
		{"zero bound", 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clip(tt.x, tt.bound); got != tt.want {
				t.Errorf("Clip(%d, %d) = %d, want %d", tt.x, tt.bound, got, tt.want)
			}
		})
	}
}

func TestSatAddI8(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		x     int8
		delta int8
		lo    int8
		hi    int8
		want  int8
	}{
		{"normal increment", 0, 1, -127, 127, 1},
		{"saturates at hi", 127, 1, -127, 127, 127},
		{"saturates at custom hi", 10, 5, -127, 12, 12},
		{"no-op at boundary", 127, 0, -127, 127, 127},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SatAddI8(tt.x, tt.delta, tt.lo, tt.hi); got != tt.want {
				t.Errorf("SatAddI8(%d, %d, %d, %d) = %d, want %d", tt.x, tt.delta, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestSatSubI8(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		x    int8
		lo   int8
		hi   int8
		want int8
	}{
		{"normal decrement", 0, -127, 127, -1},
		{"saturates at lo", -127, -127, 127, -127},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SatSubI8(tt.x, 1, tt.lo, tt.hi); got != tt.want {
				t.Errorf("SatSubI8(%d, 1, %d, %d) = %d, want %d", tt.x, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestSatIncI16(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		w    int16
		want int16
	}{
		{"positive grows", 5, 6},
		{"zero grows positive", 0, 1},
		{"negative grows in magnitude", -5, -6},
		{"saturates at max", math.MaxInt16, math.MaxInt16},
		{"saturates at min", math.MinInt16, math.MinInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SatIncI16(tt.w); got != tt.want {
				t.Errorf("SatIncI16(%d) = %d, want %d", tt.w, got, tt.want)
			}
		})
	}
}

func TestStepTowardZero(t *testing.T) {
	t.Parallel()
	tests := []struct {
		w    int16
		want int16
	}{
		{5, 4},
		{-5, -4},
		{0, 0},
		{1, 0},
		{-1, 0},
	}

	for _, tt := range tests {
		if got := StepTowardZero(tt.w); got != tt.want {
			t.Errorf("StepTowardZero(%d) = %d, want %d", tt.w, got, tt.want)
		}
	}
}
