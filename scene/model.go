package scene

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ViewWindow is the region of scene space renderers are asked to show. It is
// a rendering hint only and is passed to renderers by value.
type ViewWindow struct {
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// DefaultViewWindow is used when a scene does not declare a canvas.
var DefaultViewWindow = ViewWindow{X: 10, Y: 10, Width: 600, Height: 400}

// Model owns the shapes of an animation in declaration order.
//
// Mutations naming a shape that is not in the model are ignored and return
// nil. Scene sources may reference shapes before or without declaring them
// and the model tolerates that rather than failing the whole load.
type Model struct {
	window ViewWindow
	shapes []*Shape
	byName map[string]*Shape
}

// NewModel creates an empty model.
func NewModel(window ViewWindow) *Model {
	return &Model{
		window: window,
		byName: make(map[string]*Shape),
	}
}

// Window returns the view window.
func (m *Model) Window() ViewWindow {
	return m.window
}

// Len returns the number of shapes.
func (m *Model) Len() int {
	return len(m.shapes)
}

// AddShape appends s. Names are unique within a model.
func (m *Model) AddShape(s *Shape) error {
	if s == nil {
		return fmt.Errorf("%w: shape is nil", ErrInvalidArgument)
	}
	if _, dup := m.byName[s.name]; dup {
		return fmt.Errorf("%w: shape %s already declared", ErrInvalidArgument, s.name)
	}
	m.shapes = append(m.shapes, s)
	m.byName[s.name] = s
	return nil
}

// Lookup returns a copy of the named shape.
func (m *Model) Lookup(name string) (*Shape, bool) {
	s, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return s.Copy(), true
}

// AddMove appends a position change to the named shape.
func (m *Model) AddMove(name string, c PositionChange) error {
	if err := checkName(name); err != nil {
		return err
	}
	if !c.valid() {
		return fmt.Errorf("%w: move for %s is missing or malformed", ErrInvalidArgument, name)
	}
	return m.with(name, func(s *Shape) error { return s.AddPositionChange(c) })
}

// AddResize appends a size change to the named shape.
func (m *Model) AddResize(name string, c SizeChange) error {
	if err := checkName(name); err != nil {
		return err
	}
	if !c.valid() {
		return fmt.Errorf("%w: resize for %s is missing or malformed", ErrInvalidArgument, name)
	}
	return m.with(name, func(s *Shape) error { return s.AddSizeChange(c) })
}

// AddColorChange appends a color change to the named shape.
func (m *Model) AddColorChange(name string, c ColorChange) error {
	if err := checkName(name); err != nil {
		return err
	}
	if !c.valid() {
		return fmt.Errorf("%w: color change for %s is missing or malformed", ErrInvalidArgument, name)
	}
	return m.with(name, func(s *Shape) error { return s.AddColorChange(c) })
}

// SetReference replaces the reference point of the named shape.
func (m *Model) SetReference(name string, p Point) error {
	if err := checkName(name); err != nil {
		return err
	}
	return m.with(name, func(s *Shape) error {
		s.SetReference(p)
		return nil
	})
}

// SetColor replaces the color of the named shape.
func (m *Model) SetColor(name string, c colorful.Color) error {
	if err := checkName(name); err != nil {
		return err
	}
	return m.with(name, func(s *Shape) error {
		s.SetColor(c)
		return nil
	})
}

// Shapes returns deep copies of the shapes in declaration order. Changes to
// the copies never reach the model.
func (m *Model) Shapes() []*Shape {
	out := make([]*Shape, len(m.shapes))
	for i, s := range m.shapes {
		out[i] = s.Copy()
	}
	return out
}

// ShapesExact returns the live shapes. Only the playback controller uses it,
// on its own working copy of a scene.
func (m *Model) ShapesExact() []*Shape {
	return m.shapes
}

// Duration is the latest end tick of any position change, or 0.
func (m *Model) Duration() int {
	d := 0
	for _, s := range m.shapes {
		for _, c := range s.moves {
			if c.end > d {
				d = c.end
			}
		}
	}
	return d
}

// Copy returns a deep copy of the model.
func (m *Model) Copy() *Model {
	c := NewModel(m.window)
	for _, s := range m.shapes {
		sc := s.Copy()
		c.shapes = append(c.shapes, sc)
		c.byName[sc.name] = sc
	}
	return c
}

func (m *Model) with(name string, fn func(*Shape) error) error {
	s, ok := m.byName[name]
	if !ok {
		return nil
	}
	return fn(s)
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: shape name is empty", ErrInvalidArgument)
	}
	return nil
}
