package scene

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// PositionChange moves a shape from one point to another between two ticks.
// Values are built with NewPositionChange; the zero value is not a valid change.
type PositionChange struct {
	from, to   Point
	start, end int
}

// NewPositionChange creates a PositionChange. The interval must start at or
// after tick 0 and end strictly after it starts.
func NewPositionChange(from, to Point, start, end int) (PositionChange, error) {
	if err := checkInterval(start, end); err != nil {
		return PositionChange{}, fmt.Errorf("position change: %w", err)
	}
	return PositionChange{from: from, to: to, start: start, end: end}, nil
}

func (c PositionChange) From() Point { return c.from }
func (c PositionChange) To() Point   { return c.to }
func (c PositionChange) Start() int  { return c.start }
func (c PositionChange) End() int    { return c.end }

func (c PositionChange) valid() bool { return c.end > c.start && c.start >= 0 }

// SizeChange scales a shape by a factor between two ticks.
type SizeChange struct {
	factor     float64
	start, end int
}

// NewSizeChange creates a SizeChange. A zero factor would collapse the shape
// and is rejected along with empty or inverted intervals.
func NewSizeChange(factor float64, start, end int) (SizeChange, error) {
	if factor == 0 {
		return SizeChange{}, fmt.Errorf("size change: %w: factor must be non-zero", ErrInvalidArgument)
	}
	if err := checkInterval(start, end); err != nil {
		return SizeChange{}, fmt.Errorf("size change: %w", err)
	}
	return SizeChange{factor: factor, start: start, end: end}, nil
}

func (c SizeChange) Factor() float64 { return c.factor }
func (c SizeChange) Start() int      { return c.start }
func (c SizeChange) End() int        { return c.end }

func (c SizeChange) valid() bool { return c.factor != 0 && c.end > c.start && c.start >= 0 }

// ColorChange switches a shape to a color at a single tick.
type ColorChange struct {
	color colorful.Color
	at    int
	set   bool
}

// NewColorChange creates a ColorChange taking effect at tick at.
func NewColorChange(color colorful.Color, at int) (ColorChange, error) {
	if at < 0 {
		return ColorChange{}, fmt.Errorf("color change: %w: tick %d is negative", ErrInvalidArgument, at)
	}
	return ColorChange{color: color, at: at, set: true}, nil
}

func (c ColorChange) Color() colorful.Color { return c.color }
func (c ColorChange) At() int               { return c.at }

func (c ColorChange) valid() bool { return c.set && c.at >= 0 }

func checkInterval(start, end int) error {
	if start < 0 {
		return fmt.Errorf("%w: start tick %d is negative", ErrInvalidArgument, start)
	}
	if end <= start {
		return fmt.Errorf("%w: interval [%d, %d] is empty or inverted", ErrInvalidArgument, start, end)
	}
	return nil
}
