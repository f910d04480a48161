package anim

import "github.com/tanema/gween/ease"

// Curve maps normalised progress in [0,1] to an eased value. Overshooting
// curves may leave [0,1] in between but hit 0 and 1 exactly at the ends.
type Curve func(p float64) float64

// FromTween adapts a gween easing function.
func FromTween(fn ease.TweenFunc) Curve {
	return func(p float64) float64 {
		if p <= 0 {
			return 0
		}
		if p >= 1 {
			return 1
		}
		return float64(fn(float32(p), 0, 1, 1))
	}
}

var (
	Linear   = FromTween(ease.Linear)
	InQuad   = FromTween(ease.InQuad)
	OutQuad  = FromTween(ease.OutQuad)
	OutCubic = FromTween(ease.OutCubic)
	OutBack  = FromTween(ease.OutBack)
)

// Curves indexes the curves selectable from configuration.
var Curves = map[string]Curve{
	"linear":    Linear,
	"in_quad":   InQuad,
	"out_quad":  OutQuad,
	"out_cubic": OutCubic,
	"out_back":  OutBack,
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
