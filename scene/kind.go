package scene

import (
	"fmt"
	"math"
	"strings"
)

// Kind tags the geometry of a Shape. The set is closed; every switch over a
// Kind in this module handles each value explicitly.
type Kind int

const (
	Rectangle Kind = iota
	Ellipse
)

// ParseKind maps a scene file type name onto a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rectangle", "rect":
		return Rectangle, nil
	case "ellipse", "circle", "oval":
		return Ellipse, nil
	}
	return 0, fmt.Errorf("%w: unsupported shape type %q", ErrInvalidArgument, name)
}

func (k Kind) String() string {
	switch k {
	case Rectangle:
		return "rectangle"
	case Ellipse:
		return "ellipse"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Size holds the extent of a shape. Rectangles use W and H as width and
// height; ellipses use them as the horizontal and vertical radii.
type Size struct {
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Scale multiplies both dimensions by f.
func (s Size) Scale(f float64) Size {
	return Size{W: s.W * f, H: s.H * f}
}

// Area of a shape of kind k with extent s.
func (k Kind) Area(s Size) float64 {
	switch k {
	case Rectangle:
		return s.W * s.H
	case Ellipse:
		return math.Pi * s.W * s.H
	}
	return 0
}

// Dimensions describes the extent s the way Describe prints it.
func (k Kind) Dimensions(s Size) string {
	switch k {
	case Rectangle:
		return fmt.Sprintf("Width: %.2f, Height: %.2f", s.W, s.H)
	case Ellipse:
		if s.W == s.H {
			return fmt.Sprintf("Radius: %.2f", s.W)
		}
		return fmt.Sprintf("X radius: %.2f, Y radius: %.2f", s.W, s.H)
	}
	return ""
}

// Anchor names the reference point of the kind.
func (k Kind) Anchor() string {
	switch k {
	case Rectangle:
		return "Min corner"
	case Ellipse:
		return "Center"
	}
	return "Reference"
}

// Element is the draw hint for markup renderers: the element name and the
// attribute names carrying the reference point and the two extents.
func (k Kind) Element() (name, x, y, w, h string) {
	switch k {
	case Rectangle:
		return "rect", "x", "y", "width", "height"
	case Ellipse:
		return "ellipse", "cx", "cy", "rx", "ry"
	}
	return "", "", "", "", ""
}
