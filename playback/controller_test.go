package playback

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/fogleman/ease"

	"github.com/matt-g-everett/animtx/scene"
)

type manualTicker struct {
	c        chan time.Time
	interval time.Duration
	stopped  bool
}

func (t *manualTicker) C() <-chan time.Time { return t.c }
func (t *manualTicker) Stop()               { t.stopped = true }

// manualClock hands out tickers that only fire when the test says so.
type manualClock struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (m *manualClock) NewTicker(d time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTicker{c: make(chan time.Time), interval: d}
	m.tickers = append(m.tickers, t)
	return t
}

func (m *manualClock) last() *manualTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tickers) == 0 {
		return nil
	}
	return m.tickers[len(m.tickers)-1]
}

// fire delivers n timer events. The send blocks until the controller loop
// has taken each one.
func (m *manualClock) fire(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		tk := m.last()
		if tk == nil {
			t.Fatal("No ticker was started")
		}
		select {
		case tk.c <- time.Now():
		case <-time.After(time.Second):
			t.Fatal("Controller did not take the tick")
		}
	}
}

type recorder struct {
	mu      sync.Mutex
	frames  []*Frame
	cleared int
}

func (r *recorder) Render(f *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
	return nil
}

func (r *recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared++
}

func (r *recorder) ticks() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticks := make([]int, len(r.frames))
	for i, f := range r.frames {
		ticks[i] = f.Tick
	}
	return ticks
}

func (r *recorder) lastFrame() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[len(r.frames)-1]
}

// sliding is a scene with one square moving from (0, 0) to (10, 0) over the
// given number of ticks.
func sliding(t *testing.T, duration int) *scene.Model {
	t.Helper()
	b := scene.NewBuilder()
	if err := b.DeclareShape("R", "rectangle"); err != nil {
		t.Fatal(err)
	}
	from := scene.Keyframe{T: 0, W: 10, H: 10, R: 255}
	to := scene.Keyframe{T: duration, X: 10, W: 10, H: 10, R: 255}
	if err := b.AddMotion("R", from, to); err != nil {
		t.Fatal(err)
	}
	return b.Build()
}

type harness struct {
	*Controller
	clock *manualClock
	out   *recorder
}

func start(t *testing.T, model *scene.Model, opts Options) *harness {
	t.Helper()
	h := &harness{clock: new(manualClock), out: new(recorder)}
	opts.NewTicker = h.clock.NewTicker
	h.Controller = NewController(model, h.out, opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h
}

// fireAndWait fires n timer events and waits until the loop has handled
// the last one, render included.
func (h *harness) fireAndWait(t *testing.T, n int) {
	t.Helper()
	h.clock.fire(t, n)
	h.status(t)
}

func (h *harness) status(t *testing.T) Status {
	t.Helper()
	st, err := h.Status()
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func equalTicks(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTempoSetsTickInterval(t *testing.T) {
	h := start(t, sliding(t, 10), Options{})
	if err := h.Start(2); err != nil {
		t.Fatal(err)
	}
	first := h.clock.last()
	if first.interval != 500*time.Millisecond {
		t.Errorf("Expected 500ms at tempo 2, got %v", first.interval)
	}

	if err := h.SetTempo(4); err != nil {
		t.Fatal(err)
	}
	if got := h.clock.last().interval; got != 250*time.Millisecond {
		t.Errorf("Expected 250ms at tempo 4, got %v", got)
	}
	if !first.stopped {
		t.Error("Old ticker kept running after a tempo change")
	}
}

func TestTicksAdvanceOneAtATime(t *testing.T) {
	h := start(t, sliding(t, 10), Options{})
	if err := h.Start(2); err != nil {
		t.Fatal(err)
	}
	h.fireAndWait(t, 4)

	st := h.status(t)
	if st.Tick != 4 || st.Mode != Running || st.Tempo != 2 {
		t.Errorf("Unexpected status %+v", st)
	}
	if want := []int{0, 1, 2, 3, 4}; !equalTicks(h.out.ticks(), want) {
		t.Errorf("Expected frames %v, got %v", want, h.out.ticks())
	}
}

func TestPauseResumeKeepsTick(t *testing.T) {
	h := start(t, sliding(t, 10), Options{})
	if err := h.Start(2); err != nil {
		t.Fatal(err)
	}
	h.fireAndWait(t, 2)

	if err := h.Pause(); err != nil {
		t.Fatal(err)
	}
	if !h.clock.last().stopped {
		t.Error("Ticker kept running while paused")
	}
	if st := h.status(t); st.Mode != Paused || st.Tick != 2 {
		t.Errorf("Unexpected status after pause %+v", st)
	}

	if err := h.Resume(); err != nil {
		t.Fatal(err)
	}
	h.fireAndWait(t, 1)
	if st := h.status(t); st.Mode != Running || st.Tick != 3 {
		t.Errorf("Unexpected status after resume %+v", st)
	}
	if want := []int{0, 1, 2, 3}; !equalTicks(h.out.ticks(), want) {
		t.Errorf("Pause and resume skipped or repeated a frame: %v", h.out.ticks())
	}
}

func TestSetTempoRejectsNonPositive(t *testing.T) {
	h := start(t, sliding(t, 10), Options{})
	if err := h.Start(2); err != nil {
		t.Fatal(err)
	}
	h.fireAndWait(t, 1)
	before := h.status(t)

	for _, tempo := range []int{0, -1} {
		if err := h.SetTempo(tempo); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("SetTempo(%d): expected ErrInvalidArgument, got %v", tempo, err)
		}
		if st := h.status(t); st != before {
			t.Errorf("SetTempo(%d) changed status from %+v to %+v", tempo, before, st)
		}
	}

	if err := h.Pause(); err != nil {
		t.Fatal(err)
	}
	if err := h.SetTempo(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument while paused, got %v", err)
	}
	if st := h.status(t); st.Mode != Paused || st.Tick != 1 || st.Tempo != 2 {
		t.Errorf("Unexpected status %+v", st)
	}
}

func TestDecreaseSpeedStopsAtOne(t *testing.T) {
	h := start(t, sliding(t, 10), Options{})
	if err := h.Start(1); err != nil {
		t.Fatal(err)
	}
	if err := h.DecreaseSpeed(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	if err := h.IncreaseSpeed(); err != nil {
		t.Fatal(err)
	}
	if st := h.status(t); st.Tempo != 2 {
		t.Errorf("Expected tempo 2, got %d", st.Tempo)
	}
	if got := h.clock.last().interval; got != 500*time.Millisecond {
		t.Errorf("Expected 500ms after speeding up, got %v", got)
	}
}

func TestCommandsRequireMode(t *testing.T) {
	h := start(t, sliding(t, 10), Options{})

	stopped := map[string]func() error{
		"pause":    h.Pause,
		"resume":   h.Resume,
		"restart":  h.Restart,
		"loop":     h.Loop,
		"stopLoop": h.StopLoop,
		"faster":   h.IncreaseSpeed,
		"slower":   h.DecreaseSpeed,
		"tempo":    func() error { return h.SetTempo(3) },
	}
	for name, fn := range stopped {
		if err := fn(); !errors.Is(err, ErrInvalidState) {
			t.Errorf("%s while stopped: expected ErrInvalidState, got %v", name, err)
		}
	}

	if err := h.Start(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for tempo 0, got %v", err)
	}
	if err := h.Start(3); err != nil {
		t.Fatal(err)
	}
	if err := h.Start(3); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Start while running: expected ErrInvalidState, got %v", err)
	}
	if err := h.Resume(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Resume while running: expected ErrInvalidState, got %v", err)
	}
	if err := h.Pause(); err != nil {
		t.Fatal(err)
	}
	if err := h.Pause(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Pause while paused: expected ErrInvalidState, got %v", err)
	}
}

func TestPlaybackStopsAfterLastTick(t *testing.T) {
	h := start(t, sliding(t, 3), Options{})
	if err := h.Start(5); err != nil {
		t.Fatal(err)
	}
	h.fireAndWait(t, 3)
	if st := h.status(t); st.Tick != 3 || st.Mode != Running {
		t.Fatalf("Unexpected status at the last tick %+v", st)
	}

	h.fireAndWait(t, 1)
	st := h.status(t)
	if st.Mode != Stopped || st.Tick != 3 {
		t.Errorf("Expected to stop on tick 3, got %+v", st)
	}
	if !h.clock.last().stopped {
		t.Error("Ticker kept running after playback stopped")
	}
	if want := []int{0, 1, 2, 3}; !equalTicks(h.out.ticks(), want) {
		t.Errorf("Expected frames %v, got %v", want, h.out.ticks())
	}
}

func TestOnStopReportsStops(t *testing.T) {
	var mu sync.Mutex
	var stops []Status
	h := start(t, sliding(t, 3), Options{OnStop: func(st Status) {
		mu.Lock()
		defer mu.Unlock()
		stops = append(stops, st)
	}})
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(stops)
	}

	if err := h.Start(5); err != nil {
		t.Fatal(err)
	}
	h.fireAndWait(t, 3)
	if n := count(); n != 0 {
		t.Fatalf("OnStop called %d times while playing", n)
	}
	h.fireAndWait(t, 1)
	if n := count(); n != 1 {
		t.Fatalf("Expected OnStop at the end of the scene, got %d calls", n)
	}
	if st := stops[0]; st.Mode != Stopped || st.Tick != 3 {
		t.Errorf("Unexpected status passed to OnStop %+v", st)
	}

	if err := h.Start(5); err != nil {
		t.Fatal(err)
	}
	if err := h.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := h.Stop(); err != nil {
		t.Fatal(err)
	}
	if n := count(); n != 2 {
		t.Errorf("Expected one more OnStop for Stop, got %d calls in total", n)
	}
}

func TestLoopingRestarts(t *testing.T) {
	h := start(t, sliding(t, 2), Options{})
	if err := h.Start(5); err != nil {
		t.Fatal(err)
	}
	if err := h.Loop(); err != nil {
		t.Fatal(err)
	}
	h.fireAndWait(t, 4)

	st := h.status(t)
	if st.Mode != Running || st.Tick != 1 || !st.Looping {
		t.Errorf("Unexpected status %+v", st)
	}
	if want := []int{0, 1, 2, 0, 1}; !equalTicks(h.out.ticks(), want) {
		t.Errorf("Expected frames %v, got %v", want, h.out.ticks())
	}
	if h.out.cleared != 2 {
		t.Errorf("Expected the renderer cleared on start and loop, got %d", h.out.cleared)
	}

	if err := h.StopLoop(); err != nil {
		t.Fatal(err)
	}
	h.fireAndWait(t, 2)
	if st := h.status(t); st.Mode != Stopped {
		t.Errorf("Expected to stop once looping is off, got %+v", st)
	}
}

func TestRestartFromPause(t *testing.T) {
	h := start(t, sliding(t, 10), Options{})
	if err := h.Start(2); err != nil {
		t.Fatal(err)
	}
	h.fireAndWait(t, 5)
	if err := h.Pause(); err != nil {
		t.Fatal(err)
	}
	if err := h.Restart(); err != nil {
		t.Fatal(err)
	}
	if st := h.status(t); st.Mode != Running || st.Tick != 0 {
		t.Errorf("Unexpected status after restart %+v", st)
	}
	h.fireAndWait(t, 1)
	if st := h.status(t); st.Tick != 1 {
		t.Errorf("Expected tick 1, got %d", st.Tick)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	h := start(t, sliding(t, 10), Options{})
	if err := h.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := h.Start(2); err != nil {
		t.Fatal(err)
	}
	if err := h.Stop(); err != nil {
		t.Fatal(err)
	}
	if !h.clock.last().stopped {
		t.Error("Ticker kept running after Stop")
	}
	if err := h.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := h.Start(2); err != nil {
		t.Errorf("Expected a stopped controller to start again, got %v", err)
	}
}

func TestFramesResolveShapes(t *testing.T) {
	h := start(t, sliding(t, 10), Options{})
	if err := h.Start(2); err != nil {
		t.Fatal(err)
	}
	h.fireAndWait(t, 5)

	f := h.out.lastFrame()
	s, ok := f.Lookup("R")
	if !ok {
		t.Fatal("Frame is missing shape R")
	}
	// Last-wins: the move has started, so its target applies.
	if s.Position.X != 10 || !s.Visible {
		t.Errorf("Expected R visible at x=10, got %+v", s)
	}
	if f.Window != scene.DefaultViewWindow {
		t.Errorf("Expected the default window, got %+v", f.Window)
	}
}

func TestStepModeWalksShapes(t *testing.T) {
	h := start(t, sliding(t, 10), Options{Step: true})
	if err := h.Start(2); err != nil {
		t.Fatal(err)
	}
	h.fireAndWait(t, 5)

	s, _ := h.out.lastFrame().Lookup("R")
	if math.Abs(s.Position.X-5) > 1e-9 {
		t.Errorf("Expected R halfway at x=5, got %v", s.Position)
	}

	// A restart must start again from the untouched scene.
	if err := h.Restart(); err != nil {
		t.Fatal(err)
	}
	s, _ = h.out.lastFrame().Lookup("R")
	if s.Position.X != 0 {
		t.Errorf("Expected R back at x=0 after restart, got %v", s.Position)
	}
}

func TestLinearPolicyUsesEasing(t *testing.T) {
	h := start(t, sliding(t, 10), Options{Policy: scene.PolicyLinear, Easing: ease.InQuad})
	if err := h.Start(2); err != nil {
		t.Fatal(err)
	}
	h.fireAndWait(t, 5)

	s, _ := h.out.lastFrame().Lookup("R")
	if math.Abs(s.Position.X-2.5) > 1e-9 {
		t.Errorf("Expected R eased in to x=2.5, got %v", s.Position)
	}
}

func TestLoadRestartsPlayback(t *testing.T) {
	h := start(t, sliding(t, 10), Options{})
	if err := h.Start(2); err != nil {
		t.Fatal(err)
	}
	h.fireAndWait(t, 3)

	if err := h.Load(sliding(t, 20)); err != nil {
		t.Fatal(err)
	}
	st := h.status(t)
	if st.Tick != 0 || st.Duration != 20 || st.Mode != Running {
		t.Errorf("Unexpected status after load %+v", st)
	}
	if err := h.Load(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for a nil model, got %v", err)
	}
}

func TestClosedController(t *testing.T) {
	c := NewController(sliding(t, 10), nil, Options{NewTicker: new(manualClock).NewTicker})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(2); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestDispatch(t *testing.T) {
	h := start(t, sliding(t, 10), Options{})
	if err := h.Dispatch(CommandStart, 3); err != nil {
		t.Fatal(err)
	}
	if err := h.Dispatch(CommandLoop, 0); err != nil {
		t.Fatal(err)
	}
	if err := h.Dispatch(CommandTempo, 7); err != nil {
		t.Fatal(err)
	}
	if st := h.status(t); st.Tempo != 7 || !st.Looping {
		t.Errorf("Unexpected status %+v", st)
	}
	if err := h.Dispatch(Command("jump"), 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}
