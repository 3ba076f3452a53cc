package playback

import (
	"errors"

	"github.com/matt-g-everett/animtx/scene"
)

// Status is a snapshot of the transport.
type Status struct {
	Mode     Mode `json:"mode"`
	Tick     int  `json:"tick"`
	Tempo    int  `json:"tempo"`
	Looping  bool `json:"looping"`
	Duration int  `json:"duration"`
}

// Frame is everything a renderer needs to draw one tick.
type Frame struct {
	Status
	Window scene.ViewWindow
	Shapes []scene.State
}

// Lookup returns the resolved state of the named shape.
func (f *Frame) Lookup(name string) (scene.State, bool) {
	for _, s := range f.Shapes {
		if s.Name == name {
			return s, true
		}
	}
	return scene.State{}, false
}

// Visible returns the shapes on stage in this frame.
func (f *Frame) Visible() []scene.State {
	var v []scene.State
	for _, s := range f.Shapes {
		if s.Visible {
			v = append(v, s)
		}
	}
	return v
}

// FrameAt resolves every shape of m at tick. The frame carries no transport
// status beyond the tick.
func FrameAt(m *scene.Model, tick int, r scene.Resolver) *Frame {
	return resolveFrame(m, tick, r, false)
}

// resolveFrame queries r for each shape. Stepped models already carry their
// position and extent on the live shapes.
func resolveFrame(m *scene.Model, tick int, r scene.Resolver, stepped bool) *Frame {
	shapes := m.ShapesExact()
	f := &Frame{
		Status: Status{Tick: tick, Duration: m.Duration()},
		Window: m.Window(),
		Shapes: make([]scene.State, 0, len(shapes)),
	}
	for _, s := range shapes {
		st := r.State(s, tick)
		if stepped {
			st.Position = s.Reference()
			if st.Visible {
				st.Size = s.Size()
			}
		}
		f.Shapes = append(f.Shapes, st)
	}
	return f
}

// Renderer draws frames. Render is called from the controller loop, one frame
// at a time.
type Renderer interface {
	Render(f *Frame) error
}

// Clearer is implemented by renderers that hold state between frames. Clear
// is called whenever playback returns to tick 0.
type Clearer interface {
	Clear()
}

// Renderers fans a frame out to several renderers.
type Renderers []Renderer

// Render draws f on every renderer and joins their errors.
func (rs Renderers) Render(f *Frame) error {
	var errs []error
	for _, r := range rs {
		if err := r.Render(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Clear clears every renderer that keeps state.
func (rs Renderers) Clear() {
	for _, r := range rs {
		if c, ok := r.(Clearer); ok {
			c.Clear()
		}
	}
}

// RenderFunc adapts a function to a Renderer.
type RenderFunc func(f *Frame) error

// Render calls fn(f).
func (fn RenderFunc) Render(f *Frame) error {
	return fn(f)
}
