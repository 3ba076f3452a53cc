package scene

import (
	"fmt"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/animtx/util"
)

// Policy selects how an interval change contributes to the value of an
// attribute at a given tick.
type Policy int

const (
	// PolicyLastWins resolves an attribute to the target value of the last
	// authored change once any change has started before the query tick.
	// There is no blending: the target applies as soon as a change has started.
	PolicyLastWins Policy = iota

	// PolicyLinear blends from the start value to the target value by the
	// elapsed fraction of the change.
	PolicyLinear
)

// ParsePolicy maps a config value onto a Policy. The empty string selects
// PolicyLastWins.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "last-wins":
		return PolicyLastWins, nil
	case "linear":
		return PolicyLinear, nil
	}
	return 0, fmt.Errorf("%w: unknown resolution policy %q", ErrInvalidArgument, name)
}

func (p Policy) String() string {
	if p == PolicyLinear {
		return "linear"
	}
	return "last-wins"
}

// State is the rendered look of a shape at one tick.
type State struct {
	Name     string
	Kind     Kind
	Position Point
	Size     Size
	Color    colorful.Color
	Visible  bool
}

// Resolver maps (shape, tick) onto attribute values. It holds no state
// besides its configuration and is safe to use from any goroutine as long as
// the shape is not mutated concurrently. The zero value uses PolicyLastWins.
type Resolver struct {
	Policy Policy
	// Easing shapes the elapsed fraction under PolicyLinear. Nil is linear.
	Easing ease.Function
}

// ResolveVisible reports whether t lies within the shape's lifetime.
func ResolveVisible(s *Shape, t int) bool {
	return s.appear <= t && t <= s.disappear
}

// ResolvePosition resolves the reference point of s at t under PolicyLastWins.
func ResolvePosition(s *Shape, t int) Point {
	return Resolver{}.Position(s, t)
}

// ResolveSize resolves the extent of s at t under PolicyLastWins.
func ResolveSize(s *Shape, t int) (Size, error) {
	return Resolver{}.Size(s, t)
}

// ResolveColor resolves the fill color of s at t.
func ResolveColor(s *Shape, t int) (colorful.Color, error) {
	return Resolver{}.Color(s, t)
}

// Position keeps the base reference point until some position change has
// started before t. From then on the last authored change decides, whether
// or not it is the one that started.
func (r Resolver) Position(s *Shape, t int) Point {
	if !anyStarted(len(s.moves), func(i int) int { return s.moves[i].start }, t) {
		return s.reference
	}
	return r.movedTo(s.moves[len(s.moves)-1], t)
}

func (r Resolver) movedTo(c PositionChange, t int) Point {
	if r.Policy != PolicyLinear {
		return c.to
	}
	f := util.Progress(r.Easing, c.start, c.end, t)
	return Point{
		X: util.Lerp(c.from.X, c.to.X, f),
		Y: util.Lerp(c.from.Y, c.to.Y, f),
	}
}

// Size scales the declared extent by the factor of every size change that
// has started before t, in authoring order, so repeated resizes compound.
// Shapes are off stage outside their lifetime, so querying there fails with
// ErrOutOfRange.
func (r Resolver) Size(s *Shape, t int) (Size, error) {
	if !ResolveVisible(s, t) {
		return Size{}, fmt.Errorf("%w: size of %s at tick %d outside [%d, %d]", ErrOutOfRange, s.name, t, s.appear, s.disappear)
	}
	size := s.declared
	for _, c := range s.resizes {
		if c.start < t {
			size = size.Scale(r.scaledBy(c, t))
		}
	}
	return size, nil
}

func (r Resolver) scaledBy(c SizeChange, t int) float64 {
	if r.Policy != PolicyLinear {
		return c.factor
	}
	return util.Lerp(1, c.factor, util.Progress(r.Easing, c.start, c.end, t))
}

// Color keeps the base color until some color change takes effect before t,
// then the last authored change decides. Colors are instantaneous so the
// policy does not apply.
func (r Resolver) Color(s *Shape, t int) (colorful.Color, error) {
	if !ResolveVisible(s, t) {
		return colorful.Color{}, fmt.Errorf("%w: color of %s at tick %d outside [%d, %d]", ErrOutOfRange, s.name, t, s.appear, s.disappear)
	}
	if !anyStarted(len(s.recolors), func(i int) int { return s.recolors[i].at }, t) {
		return s.color, nil
	}
	return s.recolors[len(s.recolors)-1].color, nil
}

// anyStarted reports whether one of n changes starts strictly before t.
func anyStarted(n int, start func(i int) int, t int) bool {
	for i := 0; i < n; i++ {
		if start(i) < t {
			return true
		}
	}
	return false
}

// State resolves every attribute of s at t. Off-stage shapes report their
// current extent and color with Visible unset.
func (r Resolver) State(s *Shape, t int) State {
	st := State{
		Name:     s.name,
		Kind:     s.kind,
		Position: r.Position(s, t),
		Size:     s.size,
		Color:    s.color,
	}
	if !ResolveVisible(s, t) {
		return st
	}
	st.Visible = true
	// Both lookups only fail off stage.
	st.Size, _ = r.Size(s, t)
	st.Color, _ = r.Color(s, t)
	return st
}
