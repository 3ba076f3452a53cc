package playback

import "time"

// Ticker delivers tick events.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc starts a Ticker that fires every d.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

// NewTicker wraps a time.Ticker.
func NewTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

// Interval is the wall-clock time between ticks at tempo ticks per second.
func Interval(tempo int) time.Duration {
	return time.Second / time.Duration(tempo)
}
