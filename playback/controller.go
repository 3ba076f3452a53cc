package playback

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fogleman/ease"

	"github.com/matt-g-everett/animtx/scene"
)

// Options tune a Controller.
type Options struct {
	// Policy chooses how queries resolve changes that overlap in time.
	Policy scene.Policy
	// Easing shapes blending under scene.PolicyLinear.
	Easing ease.Function
	// Step mutates a working copy tick by tick instead of querying the model.
	Step bool
	// Loop starts the controller with looping enabled.
	Loop bool
	// NewTicker overrides the wall-clock ticker, mostly for tests.
	NewTicker TickerFunc
	// OnStop is called from the Run goroutine whenever playback becomes
	// Stopped, either at the end of the scene or on Stop. It must not call
	// back into the controller.
	OnStop func(Status)
}

type command struct {
	kind  Command
	arg   int
	model *scene.Model
	reply chan result
}

type result struct {
	status Status
	err    error
}

const (
	commandStatus Command = "status"
	commandLoad   Command = "load"
)

// Controller drives timed playback of a scene. All transport commands and
// tick events are handled one at a time by Run, so a command never observes
// a half-applied tick. Run must be running before any command is sent; until
// it is, commands block.
type Controller struct {
	renderer  Renderer
	resolver  scene.Resolver
	step      bool
	newTicker TickerFunc
	onStop    func(Status)

	commands chan command
	done     chan struct{}

	// Owned by the Run goroutine.
	original *scene.Model
	working  *scene.Model
	mode     Mode
	tick     int
	tempo    int
	looping  bool
	ticker   Ticker
}

// NewController creates an instance of a Controller for model. Playback stays
// stopped until Start.
func NewController(model *scene.Model, renderer Renderer, opts Options) *Controller {
	c := new(Controller)
	c.renderer = renderer
	c.resolver = scene.Resolver{Policy: opts.Policy, Easing: opts.Easing}
	c.step = opts.Step
	c.newTicker = opts.NewTicker
	if c.newTicker == nil {
		c.newTicker = NewTicker
	}
	c.onStop = opts.OnStop

	c.commands = make(chan command)
	c.done = make(chan struct{})

	c.original = model
	c.working = model.Copy()
	c.looping = opts.Loop

	return c
}

// Run handles commands and ticks until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	defer c.stopTicker()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-c.commands:
			err := c.handle(cmd)
			cmd.reply <- result{status: c.status(), err: err}
		case <-c.tickC():
			c.advance()
		}
	}
}

func (c *Controller) send(cmd command) (Status, error) {
	cmd.reply = make(chan result, 1)
	select {
	case c.commands <- cmd:
	case <-c.done:
		return Status{}, ErrClosed
	}
	r := <-cmd.reply
	return r.status, r.err
}

// Start begins playback from tick 0 at tempo ticks per second.
func (c *Controller) Start(tempo int) error {
	_, err := c.send(command{kind: CommandStart, arg: tempo})
	return err
}

// Pause holds playback on the current tick.
func (c *Controller) Pause() error {
	_, err := c.send(command{kind: CommandPause})
	return err
}

// Resume continues from the tick playback was paused on.
func (c *Controller) Resume() error {
	_, err := c.send(command{kind: CommandResume})
	return err
}

// Restart jumps back to tick 0 and keeps playing.
func (c *Controller) Restart() error {
	_, err := c.send(command{kind: CommandRestart})
	return err
}

// Loop makes playback restart when it reaches the last tick.
func (c *Controller) Loop() error {
	_, err := c.send(command{kind: CommandLoop})
	return err
}

// StopLoop lets playback stop at the last tick.
func (c *Controller) StopLoop() error {
	_, err := c.send(command{kind: CommandUnloop})
	return err
}

// IncreaseSpeed raises the tempo by one tick per second.
func (c *Controller) IncreaseSpeed() error {
	_, err := c.send(command{kind: CommandFaster})
	return err
}

// DecreaseSpeed lowers the tempo by one tick per second.
func (c *Controller) DecreaseSpeed() error {
	_, err := c.send(command{kind: CommandSlower})
	return err
}

// SetTempo changes the tempo. The tick is kept.
func (c *Controller) SetTempo(tempo int) error {
	_, err := c.send(command{kind: CommandTempo, arg: tempo})
	return err
}

// Stop ends playback. No tick is handled after Stop returns.
func (c *Controller) Stop() error {
	_, err := c.send(command{kind: CommandStop})
	return err
}

// Load swaps in a new scene. Playback that is under way restarts on it.
func (c *Controller) Load(model *scene.Model) error {
	if model == nil {
		return fmt.Errorf("%w: nil model", ErrInvalidArgument)
	}
	_, err := c.send(command{kind: commandLoad, model: model})
	return err
}

// Status reports the transport state.
func (c *Controller) Status() (Status, error) {
	return c.send(command{kind: commandStatus})
}

// Dispatch runs a named command. arg is the tempo for commands that take one.
func (c *Controller) Dispatch(cmd Command, arg int) error {
	switch cmd {
	case CommandStart:
		return c.Start(arg)
	case CommandPause:
		return c.Pause()
	case CommandResume:
		return c.Resume()
	case CommandRestart:
		return c.Restart()
	case CommandLoop:
		return c.Loop()
	case CommandUnloop:
		return c.StopLoop()
	case CommandFaster:
		return c.IncreaseSpeed()
	case CommandSlower:
		return c.DecreaseSpeed()
	case CommandTempo:
		return c.SetTempo(arg)
	case CommandStop:
		return c.Stop()
	}
	return fmt.Errorf("%w: unknown command %q", ErrInvalidArgument, cmd)
}

func (c *Controller) handle(cmd command) error {
	switch cmd.kind {
	case commandStatus:
		return nil
	case commandLoad:
		c.original = cmd.model
		if c.mode == Stopped {
			c.working = c.original.Copy()
			c.tick = 0
			return nil
		}
		c.rewind()
		return nil
	case CommandStop:
		if c.mode != Stopped {
			c.halt()
		}
		return nil
	}

	if cmd.kind.TakesTempo() && cmd.arg <= 0 {
		return fmt.Errorf("%w: tempo must be positive, got %d", ErrInvalidArgument, cmd.arg)
	}

	if cmd.kind == CommandStart {
		if c.mode != Stopped {
			return fmt.Errorf("%w: cannot start while %s", ErrInvalidState, c.mode)
		}
		c.tempo = cmd.arg
		c.mode = Running
		c.startTicker()
		c.rewind()
		return nil
	}

	if c.mode == Stopped {
		return fmt.Errorf("%w: cannot %s while stopped", ErrInvalidState, cmd.kind)
	}

	switch cmd.kind {
	case CommandPause:
		if c.mode != Running {
			return fmt.Errorf("%w: cannot pause while %s", ErrInvalidState, c.mode)
		}
		c.stopTicker()
		c.mode = Paused
	case CommandResume:
		if c.mode != Paused {
			return fmt.Errorf("%w: cannot resume while %s", ErrInvalidState, c.mode)
		}
		c.mode = Running
		c.startTicker()
	case CommandRestart:
		if c.mode == Paused {
			c.mode = Running
			c.startTicker()
		}
		c.rewind()
	case CommandLoop:
		c.looping = true
	case CommandUnloop:
		c.looping = false
	case CommandFaster:
		return c.setTempo(c.tempo + 1)
	case CommandSlower:
		return c.setTempo(c.tempo - 1)
	case CommandTempo:
		return c.setTempo(cmd.arg)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrInvalidArgument, cmd.kind)
	}
	return nil
}

func (c *Controller) setTempo(tempo int) error {
	if tempo <= 0 {
		return fmt.Errorf("%w: tempo must be positive, got %d", ErrInvalidArgument, tempo)
	}
	c.tempo = tempo
	if c.mode == Running {
		c.stopTicker()
		c.startTicker()
	}
	return nil
}

// advance handles one timer event.
func (c *Controller) advance() {
	if c.mode != Running {
		return
	}
	if c.tick >= c.original.Duration() {
		if c.looping {
			c.rewind()
			return
		}
		log.Printf("Playback finished at tick %d", c.tick)
		c.halt()
		return
	}
	if c.step {
		c.working.Step(c.tick)
	}
	c.tick++
	c.render()
}

// rewind puts playback back on tick 0 with a fresh working copy and draws it.
func (c *Controller) rewind() {
	c.tick = 0
	c.working = c.original.Copy()
	if cl, ok := c.renderer.(Clearer); ok {
		cl.Clear()
	}
	c.render()
}

func (c *Controller) halt() {
	c.stopTicker()
	c.mode = Stopped
	if c.onStop != nil {
		c.onStop(c.status())
	}
}

func (c *Controller) startTicker() {
	c.ticker = c.newTicker(Interval(c.tempo))
}

func (c *Controller) stopTicker() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

func (c *Controller) tickC() <-chan time.Time {
	if c.ticker == nil {
		return nil
	}
	return c.ticker.C()
}

func (c *Controller) status() Status {
	return Status{
		Mode:     c.mode,
		Tick:     c.tick,
		Tempo:    c.tempo,
		Looping:  c.looping,
		Duration: c.original.Duration(),
	}
}

func (c *Controller) frame() *Frame {
	f := resolveFrame(c.working, c.tick, c.resolver, c.step)
	f.Status = c.status()
	return f
}

func (c *Controller) render() {
	if c.renderer == nil {
		return
	}
	if err := c.renderer.Render(c.frame()); err != nil {
		log.Printf("Failed to render tick %d: %v", c.tick, err)
	}
}
