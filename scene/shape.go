package scene

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Appearance is the look of a shape before any change applies.
type Appearance struct {
	Position Point
	Size     Size
	Color    colorful.Color
}

// Shape is a named, animated 2-D primitive. Change lists keep the order in
// which they were authored, which is not necessarily time order.
type Shape struct {
	name string
	kind Kind

	reference Point
	color     colorful.Color
	declared  Size // extent the query engine scales from
	size      Size // current extent, compounded by Step

	appear    int
	disappear int

	moves    []PositionChange
	resizes  []SizeChange
	recolors []ColorChange
}

// NewShape creates a shape that is on stage from appear to disappear inclusive.
func NewShape(name string, kind Kind, look Appearance, appear, disappear int) (*Shape, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: shape name is empty", ErrInvalidArgument)
	}
	if kind != Rectangle && kind != Ellipse {
		return nil, fmt.Errorf("%w: unknown shape kind %d", ErrInvalidArgument, int(kind))
	}
	s := &Shape{
		name:      name,
		kind:      kind,
		reference: look.Position,
		color:     look.Color,
	}
	if err := s.SetSize(look.Size); err != nil {
		return nil, err
	}
	if err := s.SetLifetime(appear, disappear); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Shape) Name() string           { return s.name }
func (s *Shape) Kind() Kind             { return s.kind }
func (s *Shape) Reference() Point       { return s.reference }
func (s *Shape) Color() colorful.Color  { return s.color }
func (s *Shape) Size() Size             { return s.size }
func (s *Shape) DeclaredSize() Size     { return s.declared }
func (s *Shape) Appear() int            { return s.appear }
func (s *Shape) Disappear() int         { return s.disappear }
func (s *Shape) Visible(t int) bool     { return ResolveVisible(s, t) }
func (s *Shape) Appearance() Appearance { return Appearance{s.reference, s.declared, s.color} }

// PositionChanges returns the authored position changes.
func (s *Shape) PositionChanges() []PositionChange {
	return append([]PositionChange(nil), s.moves...)
}

// SizeChanges returns the authored size changes.
func (s *Shape) SizeChanges() []SizeChange {
	return append([]SizeChange(nil), s.resizes...)
}

// ColorChanges returns the authored color changes.
func (s *Shape) ColorChanges() []ColorChange {
	return append([]ColorChange(nil), s.recolors...)
}

// AddPositionChange appends c to the position timeline.
func (s *Shape) AddPositionChange(c PositionChange) error {
	if !c.valid() {
		return fmt.Errorf("%w: shape %s: missing or malformed position change", ErrInvalidArgument, s.name)
	}
	s.moves = append(s.moves, c)
	return nil
}

// AddSizeChange appends c to the size timeline.
func (s *Shape) AddSizeChange(c SizeChange) error {
	if !c.valid() {
		return fmt.Errorf("%w: shape %s: missing or malformed size change", ErrInvalidArgument, s.name)
	}
	s.resizes = append(s.resizes, c)
	return nil
}

// AddColorChange appends c to the color timeline.
func (s *Shape) AddColorChange(c ColorChange) error {
	if !c.valid() {
		return fmt.Errorf("%w: shape %s: missing or malformed color change", ErrInvalidArgument, s.name)
	}
	s.recolors = append(s.recolors, c)
	return nil
}

// SetReference replaces the current reference point.
func (s *Shape) SetReference(p Point) {
	s.reference = p
}

// SetColor replaces the current color.
func (s *Shape) SetColor(c colorful.Color) {
	s.color = c
}

// SetSize replaces both the declared and the current extent.
func (s *Shape) SetSize(size Size) error {
	if size.W <= 0 || size.H <= 0 {
		return fmt.Errorf("%w: shape %s: extent %.2fx%.2f must be positive", ErrInvalidArgument, s.name, size.W, size.H)
	}
	s.declared = size
	s.size = size
	return nil
}

// SetLifetime replaces the visibility window.
func (s *Shape) SetLifetime(appear, disappear int) error {
	if appear < 0 || disappear < appear {
		return fmt.Errorf("%w: shape %s: lifetime [%d, %d] is invalid", ErrInvalidArgument, s.name, appear, disappear)
	}
	s.appear = appear
	s.disappear = disappear
	return nil
}

// Area is the surface covered by the shape at tick t.
func (s *Shape) Area(t int) (float64, error) {
	size, err := ResolveSize(s, t)
	if err != nil {
		return 0, err
	}
	return s.kind.Area(size), nil
}

// Copy returns a deep copy that shares no change list with s.
func (s *Shape) Copy() *Shape {
	c := *s
	c.moves = append([]PositionChange(nil), s.moves...)
	c.resizes = append([]SizeChange(nil), s.resizes...)
	c.recolors = append([]ColorChange(nil), s.recolors...)
	return &c
}

func (s *Shape) String() string {
	return fmt.Sprintf("%s: %s, %s, Color: %s",
		s.kind.Anchor(), s.reference, s.kind.Dimensions(s.size), ColorName(s.color))
}
