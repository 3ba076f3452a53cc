package scene

import (
	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = []struct {
	name    string
	r, g, b uint8
}{
	{"Black", 0, 0, 0},
	{"Blue", 0, 0, 255},
	{"Cyan", 0, 255, 255},
	{"DarkGray", 64, 64, 64},
	{"Gray", 128, 128, 128},
	{"Green", 0, 255, 0},
	{"LightGray", 192, 192, 192},
	{"Magenta", 255, 0, 255},
	{"Orange", 255, 200, 0},
	{"Pink", 255, 175, 175},
	{"Red", 255, 0, 0},
	{"White", 255, 255, 255},
	{"Yellow", 255, 255, 0},
}

// RGB255 builds a color from 8-bit channels. Values outside [0, 255] are
// clamped.
func RGB255(r, g, b int) colorful.Color {
	return colorful.Color{R: channel(r), G: channel(g), B: channel(b)}
}

func channel(v int) float64 {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return float64(v) / 255.0
}

// ColorName returns the palette name of c, or its hex code.
func ColorName(c colorful.Color) string {
	r, g, b := c.Clamped().RGB255()
	for _, n := range namedColors {
		if n.r == r && n.g == g && n.b == b {
			return n.name
		}
	}
	return c.Clamped().Hex()
}
