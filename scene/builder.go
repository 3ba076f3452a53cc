package scene

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Keyframe is one end of a motion event in a scene description.
type Keyframe struct {
	T       int
	X, Y    float64
	W, H    float64
	R, G, B int
}

func (k Keyframe) position() Point { return Point{X: k.X, Y: k.Y} }

// Builder folds shape declarations and motion events into a Model.
type Builder struct {
	model  *Model
	shaped map[string]bool
}

// NewBuilder creates a builder for an empty scene using DefaultViewWindow.
func NewBuilder() *Builder {
	return &Builder{
		model:  NewModel(DefaultViewWindow),
		shaped: make(map[string]bool),
	}
}

// SetBounds sets the view window of the scene.
func (b *Builder) SetBounds(x, y, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d must be positive", ErrInvalidArgument, width, height)
	}
	b.model.window = ViewWindow{X: x, Y: y, Width: width, Height: height}
	return nil
}

// DeclareShape adds a shape with a placeholder look. The first motion that
// names the shape replaces it.
func (b *Builder) DeclareShape(name, kind string) error {
	k, err := ParseKind(kind)
	if err != nil {
		return err
	}
	s, err := NewShape(name, k, Appearance{Size: Size{W: 1, H: 1}}, 0, 0)
	if err != nil {
		return err
	}
	return b.model.AddShape(s)
}

// AddMotion folds one motion event into the named shape.
//
// The first motion of a shape sets its base look from the start keyframe.
// The shape's lifetime widens to cover every motion. A motion whose two
// keyframes share a tick adds no change; any other motion adds a move from
// the start to the end position, a resize by the height ratio and a color
// change at the end tick.
func (b *Builder) AddMotion(name string, from, to Keyframe) error {
	if err := checkName(name); err != nil {
		return err
	}
	if from.T < 0 || to.T < from.T {
		return fmt.Errorf("%w: motion for %s from tick %d to %d", ErrInvalidArgument, name, from.T, to.T)
	}
	s, ok := b.model.byName[name]
	if !ok {
		return nil
	}

	if !b.shaped[name] {
		s.SetReference(from.position())
		s.SetColor(RGB255(from.R, from.G, from.B))
		if err := s.SetSize(extent(s.kind, from)); err != nil {
			return err
		}
		if err := s.SetLifetime(from.T, to.T); err != nil {
			return err
		}
		b.shaped[name] = true
	} else {
		appear, disappear := s.appear, s.disappear
		if from.T < appear {
			appear = from.T
		}
		if to.T > disappear {
			disappear = to.T
		}
		if err := s.SetLifetime(appear, disappear); err != nil {
			return err
		}
	}

	if from.T == to.T {
		return nil
	}
	if from.H == 0 {
		return fmt.Errorf("%w: motion for %s starts with zero height", ErrInvalidArgument, name)
	}

	move, err := NewPositionChange(from.position(), to.position(), from.T, to.T)
	if err != nil {
		return err
	}
	resize, err := NewSizeChange(to.H/from.H, from.T, to.T)
	if err != nil {
		return err
	}
	recolor, err := NewColorChange(RGB255(to.R, to.G, to.B), to.T)
	if err != nil {
		return err
	}
	if err := b.model.AddMove(name, move); err != nil {
		return err
	}
	if err := b.model.AddResize(name, resize); err != nil {
		return err
	}
	return b.model.AddColorChange(name, recolor)
}

// AddColor folds a standalone color event into the named shape: the shape
// switches to c at tick at.
func (b *Builder) AddColor(name string, c colorful.Color, at int) error {
	if err := checkName(name); err != nil {
		return err
	}
	recolor, err := NewColorChange(c, at)
	if err != nil {
		return err
	}
	return b.model.AddColorChange(name, recolor)
}

// Build returns the model assembled so far. The builder must not be used
// afterwards.
func (b *Builder) Build() *Model {
	return b.model
}

// extent converts keyframe width and height into a Size for kind k. Ellipse
// keyframes carry the bounding box, so the radii are half of it.
func extent(k Kind, f Keyframe) Size {
	if k == Ellipse {
		return Size{W: f.W / 2, H: f.H / 2}
	}
	return Size{W: f.W, H: f.H}
}
