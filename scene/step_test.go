package scene

import (
	"math"
	"testing"
)

func TestStepWalksAlongMoves(t *testing.T) {
	m := newModel(t, newRect(t, "R", Point{}, Size{W: 2, H: 2}, 0, 20))
	if err := m.AddMove("R", move(t, Point{}, Point{X: 10, Y: 20}, 0, 10)); err != nil {
		t.Fatal(err)
	}

	work := m.Copy()
	for tick := 0; tick < 5; tick++ {
		work.Step(tick)
	}
	s := work.ShapesExact()[0]
	if math.Abs(s.Reference().X-5) > 1e-9 || math.Abs(s.Reference().Y-10) > 1e-9 {
		t.Errorf("Expected (5, 10) after five steps, got %v", s.Reference())
	}

	for tick := 5; tick < 15; tick++ {
		work.Step(tick)
	}
	if math.Abs(s.Reference().X-10) > 1e-9 || math.Abs(s.Reference().Y-20) > 1e-9 {
		t.Errorf("Expected to stop at the target, got %v", s.Reference())
	}

	if orig, _ := m.Lookup("R"); orig.Reference() != (Point{}) {
		t.Errorf("Stepping a copy moved the original to %v", orig.Reference())
	}
}

func TestStepCompoundsResizes(t *testing.T) {
	m := newModel(t, newRect(t, "R", Point{}, Size{W: 10, H: 4}, 0, 100))
	if err := m.AddResize("R", resize(t, 2, 1, 10)); err != nil {
		t.Fatal(err)
	}
	if err := m.AddResize("R", resize(t, 3, 5, 20)); err != nil {
		t.Fatal(err)
	}

	work := m.Copy()
	s := work.ShapesExact()[0]
	if s.Size() != (Size{W: 10, H: 4}) {
		t.Fatalf("Adding resizes must not change the current size, got %+v", s.Size())
	}

	for tick := 0; tick <= 1; tick++ {
		work.Step(tick)
	}
	if s.Size() != (Size{W: 20, H: 8}) {
		t.Errorf("Expected 20x8 after the first resize, got %+v", s.Size())
	}

	for tick := 2; tick < 30; tick++ {
		work.Step(tick)
	}
	if want := (Size{W: 60, H: 24}); s.Size() != want {
		t.Errorf("Expected compounded size %+v, got %+v", want, s.Size())
	}
	if s.DeclaredSize() != (Size{W: 10, H: 4}) {
		t.Errorf("Declared size changed to %+v", s.DeclaredSize())
	}

	// Stepping and querying agree on the compounded extent.
	size, err := ResolveSize(s, 30)
	if err != nil {
		t.Fatal(err)
	}
	if want := (Size{W: 60, H: 24}); size != want {
		t.Errorf("Expected resolved size %+v, got %+v", want, size)
	}
}
