package color

import "math"

const (
	// Hues closer than this are blended directly.
	directHueDistance = 0.2

	morphDimEnd    = 0.4
	morphSweepEnd  = 0.6
	morphSaturated = 0.9
	morphDimmed    = 0.05
)

// Lerp interpolates linearly from min to max.
func Lerp(f, min, max float64) float64 {
	return min + ((max - min) * f)
}

func Clamp(v, min, max float64) float64 {
	return math.Min(max, math.Max(min, v))
}

// Progress maps t from [min(a,b), max(a,b)] onto [0,1], clamped. An empty
// range acts as a step at a.
func Progress(t, a, b float64) float64 {
	lo := math.Min(a, b)
	hi := math.Max(a, b)
	if hi == lo {
		if t >= lo {
			return 1
		}
		return 0
	}
	return Clamp((t-lo)/(hi-lo), 0, 1)
}

// Morph returns the color t of the way from one color to another.
//
// Hues that are close are blended directly in HSV. Distant hues would wash
// through unrelated colors that way, so the transition instead dims and
// slightly desaturates the source, sweeps the hue while dark, then brings
// saturation and value up to the target.
func Morph(from, to Color, t float64) Color {
	f := from.HSV()
	g := to.HSV()

	var out HSV
	if math.Abs(f.H-g.H) < directHueDistance {
		out = HSV{
			H: Lerp(t, f.H, g.H),
			S: Lerp(t, f.S, g.S),
			V: Lerp(t, f.V, g.V),
		}
	} else {
		d0 := Progress(t, 0.0, morphDimEnd)
		d1 := Progress(t, morphDimEnd, morphSweepEnd)
		d2 := Progress(t, morphSweepEnd, 1.0)

		minS := morphSaturated * f.S
		minV := morphDimmed * f.V

		switch {
		case d1 == 0:
			out = HSV{H: f.H, S: Lerp(d0, f.S, minS), V: Lerp(d0, f.V, minV)}
		case d2 == 0:
			out = HSV{H: Lerp(d1, f.H, g.H), S: minS, V: minV}
		default:
			out = HSV{H: g.H, S: Lerp(d2, minS, g.S), V: Lerp(d2, minV, g.V)}
		}
	}

	// Black has no meaningful hue; keep the lit end's hue and saturation.
	if g.V == 0 {
		out.H = f.H
		out.S = f.S
	} else if f.V == 0 {
		out.H = g.H
		out.S = g.S
	}

	return FromHSV(out)
}
