package main

import (
	"context"
	"testing"

	"github.com/matt-g-everett/animtx/playback"
)

func TestStreamStoppedCancels(t *testing.T) {
	a := newApp()
	a.Config = defaultConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	onStop := a.streamStopped(cancel)
	if onStop == nil {
		t.Fatal("Expected a stop hook without a commands topic")
	}
	onStop(playback.Status{Mode: playback.Stopped, Tick: 7})
	if ctx.Err() == nil {
		t.Error("Expected the stream context to be cancelled once playback stops")
	}
}

func TestStreamStoppedKeepsRunningWithCommands(t *testing.T) {
	a := newApp()
	a.Config = defaultConfig()
	a.Config.Mqtt.Topics.Commands = "animtx/commands"

	if a.streamStopped(func() {}) != nil {
		t.Error("Expected no stop hook when commands can restart playback")
	}
}
