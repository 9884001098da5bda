package easing

import (
	"math"
	"testing"
)

func TestEaseEndpoints(t *testing.T) {
	styles := []Style{Quad, Cubic, Quart, Expo}

	for _, s := range styles {
		if got := Ease(s, 0); got != 0 {
			t.Errorf("Ease(%s, 0) = %v, want 0", s, got)
		}
	}

	// Quad/Cubic/Quart reach exactly 1 at t=1; Expo's formula gives
	// 2^(10-10) = 2^0 = 1 there as well.
	for _, s := range styles {
		if got := Ease(s, 1); got != 1 {
			t.Errorf("Ease(%s, 1) = %v, want 1", s, got)
		}
	}
}

func TestEaseMonotonic(t *testing.T) {
	styles := []Style{Quad, Cubic, Quart, Expo}

	for _, s := range styles {
		prev := Ease(s, 0)
		for i := 1; i <= 1000; i++ {
			tt := float64(i) / 1000
			cur := Ease(s, tt)
			if cur < prev {
				t.Fatalf("Ease(%s) not monotonic: f(%v)=%v < f(%v)=%v", s, tt, cur, float64(i-1)/1000, prev)
			}
			if cur < 0 || cur > 1 {
				t.Fatalf("Ease(%s, %v) = %v, out of [0,1]", s, tt, cur)
			}
			prev = cur
		}
	}
}

func TestEaseValues(t *testing.T) {
	tests := []struct {
		style Style
		t     float64
		want  float64
	}{
		{Quad, 0.5, 0.25},
		{Cubic, 0.5, 0.125},
		{Quart, 0.5, 0.0625},
		{Expo, 0.5, math.Pow(2, -5)},
	}

	for _, tc := range tests {
		got := Ease(tc.style, tc.t)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Ease(%s, %v) = %v, want %v", tc.style, tc.t, got, tc.want)
		}
	}
}

func TestExpoNearZeroIsPositive(t *testing.T) {
	// Only t==0 is special-cased; just above zero the formula applies.
	got := Ease(Expo, 0.001)
	if got <= 0 {
		t.Errorf("Ease(expo, 0.001) = %v, want > 0", got)
	}
	want := math.Pow(2, 10*0.001-10)
	if got != want {
		t.Errorf("Ease(expo, 0.001) = %v, want %v", got, want)
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		name string
		want Style
	}{
		{"quad", Quad},
		{"cubic", Cubic},
		{"quart", Quart},
		{"expo", Expo},
		{"bounce", Cubic},
		{"", Cubic},
	}

	for _, tc := range tests {
		if got := ParseStyle(tc.name); got != tc.want {
			t.Errorf("ParseStyle(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestUnknownStyleFallsBackToCubic(t *testing.T) {
	unknown := Style(42)
	if got, want := Ease(unknown, 0.5), Ease(Cubic, 0.5); got != want {
		t.Errorf("Ease(unknown, 0.5) = %v, want cubic value %v", got, want)
	}
	if unknown.String() != "cubic" {
		t.Errorf("unknown style String() = %q, want cubic", unknown.String())
	}
}
