package easing

import "math"

// Style selects the interpolation curve applied to animation progress.
type Style int

const (
	Quad Style = iota
	Cubic
	Quart
	Expo
)

func (s Style) String() string {
	switch s {
	case Quad:
		return "quad"
	case Cubic:
		return "cubic"
	case Quart:
		return "quart"
	case Expo:
		return "expo"
	default:
		return "cubic"
	}
}

// ParseStyle maps a configuration string to a Style.
// Unknown names fall back to Cubic.
func ParseStyle(name string) Style {
	switch name {
	case "quad":
		return Quad
	case "cubic":
		return Cubic
	case "quart":
		return Quart
	case "expo":
		return Expo
	default:
		return Cubic
	}
}

// Ease maps progress t in [0,1] to an eased value in [0,1].
// Every style is monotonic non-decreasing and evaluates to 0 at t=0.
// Expo is piecewise: exactly 0 at t==0, otherwise 2^(10t-10); only the
// t==0 case is special-cased, the formula itself handles t=1.
func Ease(s Style, t float64) float64 {
	switch s {
	case Quad:
		return t * t
	case Cubic:
		return t * t * t
	case Quart:
		return t * t * t * t
	case Expo:
		if t == 0 {
			return 0
		}
		return math.Pow(2, 10*t-10)
	default:
		return t * t * t
	}
}
