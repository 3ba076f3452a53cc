package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/matt-g-everett/animtx/playback"
)

func TestCommandForKey(t *testing.T) {
	running := playback.Status{Mode: playback.Running}
	paused := playback.Status{Mode: playback.Paused}
	looping := playback.Status{Mode: playback.Running, Looping: true}

	tests := []struct {
		name   string
		key    tcell.Key
		r      rune
		status playback.Status
		want   playback.Command
		ok     bool
	}{
		{"space starts", tcell.KeyRune, ' ', playback.Status{}, playback.CommandStart, true},
		{"space pauses", tcell.KeyRune, ' ', running, playback.CommandPause, true},
		{"space resumes", tcell.KeyRune, ' ', paused, playback.CommandResume, true},
		{"restart", tcell.KeyRune, 'r', running, playback.CommandRestart, true},
		{"loop on", tcell.KeyRune, 'l', running, playback.CommandLoop, true},
		{"loop off", tcell.KeyRune, 'l', looping, playback.CommandUnloop, true},
		{"faster", tcell.KeyRune, '+', running, playback.CommandFaster, true},
		{"slower", tcell.KeyRune, '-', running, playback.CommandSlower, true},
		{"stop", tcell.KeyRune, 'x', running, playback.CommandStop, true},
		{"unbound rune", tcell.KeyRune, 'z', running, "", false},
		{"arrow", tcell.KeyUp, 0, running, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CommandForKey(tcell.NewEventKey(tt.key, tt.r, tcell.ModNone), tt.status)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Got (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

type fakeTransport struct {
	commands []playback.Command
	args     []int
	status   playback.Status
}

func (f *fakeTransport) Dispatch(cmd playback.Command, arg int) error {
	f.commands = append(f.commands, cmd)
	f.args = append(f.args, arg)
	if cmd == playback.CommandStart {
		f.status.Mode = playback.Running
	}
	return nil
}

func (f *fakeTransport) Status() (playback.Status, error) {
	return f.status, nil
}

func TestRunDispatchesKeys(t *testing.T) {
	screen := newScreen(t, 40, 10)
	tr := new(fakeTransport)

	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	err := Run(context.Background(), screen, tr, 5)
	if !errors.Is(err, ErrQuit) {
		t.Fatalf("Expected ErrQuit, got %v", err)
	}
	want := []playback.Command{playback.CommandStart, playback.CommandPause}
	if len(tr.commands) != len(want) || tr.commands[0] != want[0] || tr.commands[1] != want[1] {
		t.Errorf("Expected %v, got %v", want, tr.commands)
	}
	if tr.args[0] != 5 {
		t.Errorf("Expected start at tempo 5, got %d", tr.args[0])
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	screen := newScreen(t, 40, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, screen, new(fakeTransport), 1)
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil after cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
