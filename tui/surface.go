package tui

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/matt-g-everett/animtx/playback"
	"github.com/matt-g-everett/animtx/scene"
)

const block = '█'

// Surface paints playback frames into a terminal screen. The scene window is
// scaled onto every row but the last, which shows the transport status.
type Surface struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// NewSurface creates an instance of a Surface.
func NewSurface(screen tcell.Screen) *Surface {
	s := new(Surface)
	s.screen = screen
	return s
}

// Render draws f and shows it.
func (s *Surface) Render(f *playback.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Clear()
	width, height := s.screen.Size()
	rows := height - 1
	if width <= 0 || rows <= 0 || f.Window.Width <= 0 || f.Window.Height <= 0 {
		return nil
	}

	win := f.Window
	sx := float64(width) / float64(win.Width)
	sy := float64(rows) / float64(win.Height)

	for _, st := range f.Visible() {
		r, g, b := st.Color.Clamped().RGB255()
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))

		minX, minY, maxX, maxY := bounds(st)
		x0 := clamp(int(math.Floor((minX-float64(win.X))*sx)), 0, width)
		x1 := clamp(int(math.Ceil((maxX-float64(win.X))*sx)), 0, width)
		y0 := clamp(int(math.Floor((minY-float64(win.Y))*sy)), 0, rows)
		y1 := clamp(int(math.Ceil((maxY-float64(win.Y))*sy)), 0, rows)

		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				p := scene.Point{
					X: float64(win.X) + (float64(x)+0.5)/sx,
					Y: float64(win.Y) + (float64(y)+0.5)/sy,
				}
				if contains(st, p) {
					s.screen.SetContent(x, y, block, nil, style)
				}
			}
		}
	}

	s.status(f, width, height-1)
	s.screen.Show()
	return nil
}

// Clear blanks the screen.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.Clear()
	s.screen.Show()
}

func (s *Surface) status(f *playback.Frame, width, row int) {
	line := fmt.Sprintf(" tick %d/%d  tempo %d  %s", f.Tick, f.Duration, f.Tempo, f.Mode)
	if f.Looping {
		line += "  loop"
	}
	line += "  [space] pause/resume [r] restart [l] loop [+/-] speed [q] quit"

	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, c := range line {
		if x >= width {
			break
		}
		s.screen.SetContent(x, row, c, nil, style)
		x++
	}
	for ; x < width; x++ {
		s.screen.SetContent(x, row, ' ', nil, style)
	}
}

// bounds returns the scene-space bounding box of a shape.
func bounds(st scene.State) (minX, minY, maxX, maxY float64) {
	p, sz := st.Position, st.Size
	if st.Kind == scene.Ellipse {
		return p.X - sz.W, p.Y - sz.H, p.X + sz.W, p.Y + sz.H
	}
	return p.X, p.Y, p.X + sz.W, p.Y + sz.H
}

func contains(st scene.State, p scene.Point) bool {
	if st.Kind == scene.Ellipse {
		if st.Size.W == 0 || st.Size.H == 0 {
			return false
		}
		dx := (p.X - st.Position.X) / st.Size.W
		dy := (p.Y - st.Position.Y) / st.Size.H
		return dx*dx+dy*dy <= 1
	}
	return p.X >= st.Position.X && p.X < st.Position.X+st.Size.W &&
		p.Y >= st.Position.Y && p.Y < st.Position.Y+st.Size.H
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
