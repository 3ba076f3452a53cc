package util

import (
	"fmt"
	"strings"

	"github.com/fogleman/ease"
)

var easings = map[string]ease.Function{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
}

// ParseEasing looks up an easing curve by name. The empty string selects
// linear.
func ParseEasing(name string) (ease.Function, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return fn, nil
}

// Progress returns how far tick t is through the interval [start, end] as a
// value in [0, 1], shaped by fn. A nil fn is linear.
func Progress(fn ease.Function, start, end, t int) float64 {
	if end <= start || t >= end {
		return 1
	}
	if t <= start {
		return 0
	}
	if fn == nil {
		fn = ease.Linear
	}
	return fn(float64(t-start) / float64(end-start))
}

// Lerp blends a towards b by f.
func Lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}
