package tui

import (
	"context"
	"errors"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/matt-g-everett/animtx/playback"
)

// ErrQuit is returned by Run when the user asks to leave.
var ErrQuit = errors.New("quit")

// Transport is the part of the playback controller driven from the keyboard.
type Transport interface {
	Dispatch(cmd playback.Command, arg int) error
	Status() (playback.Status, error)
}

// CommandForKey maps a key press onto a transport command given the current
// status. Space starts, pauses or resumes; l toggles looping.
func CommandForKey(ev *tcell.EventKey, st playback.Status) (playback.Command, bool) {
	if ev.Key() != tcell.KeyRune {
		return "", false
	}
	switch ev.Rune() {
	case ' ':
		switch st.Mode {
		case playback.Running:
			return playback.CommandPause, true
		case playback.Paused:
			return playback.CommandResume, true
		}
		return playback.CommandStart, true
	case 's':
		return playback.CommandStart, true
	case 'r':
		return playback.CommandRestart, true
	case 'l':
		if st.Looping {
			return playback.CommandUnloop, true
		}
		return playback.CommandLoop, true
	case '+', '=':
		return playback.CommandFaster, true
	case '-', '_':
		return playback.CommandSlower, true
	case 'x':
		return playback.CommandStop, true
	}
	return "", false
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// Run turns key presses on screen into commands for t until the user quits,
// the screen is finalized or ctx is cancelled. tempo is used whenever a key
// starts playback.
func Run(ctx context.Context, screen tcell.Screen, t Transport, tempo int) error {
	go func() {
		<-ctx.Done()
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if isQuit(ev) {
				return ErrQuit
			}
			st, err := t.Status()
			if err != nil {
				return err
			}
			cmd, ok := CommandForKey(ev, st)
			if !ok {
				continue
			}
			if err := t.Dispatch(cmd, tempo); err != nil {
				log.Printf("Key %s: %v", ev.Name(), err)
			}
		}
	}
}
