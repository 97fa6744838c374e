package dashboard

import (
	"io"
	"log/slog"
	"time"
)

// Options configure a dashboard controller.
type Options struct {
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
	// FanOutLimit caps concurrent per-child lookups; defaults to 8.
	FanOutLimit int
	// Logger receives partial-load warnings; defaults to discarding.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.FanOutLimit <= 0 {
		o.FanOutLimit = 8
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// lifecycle tracks which responses may still be applied. Every Load and
// every committed mutation bumps gen, so a Load that started earlier is
// discarded instead of overwriting newer local state. After close nothing
// is applied. All methods require the owning controller's lock.
type lifecycle struct {
	gen      uint64
	closed   bool
	inFlight map[int64]bool
}

func (l *lifecycle) begin() (uint64, error) {
	if l.closed {
		return 0, ErrStale
	}
	l.gen++
	return l.gen, nil
}

func (l *lifecycle) current(gen uint64) bool {
	return !l.closed && gen == l.gen
}

func (l *lifecycle) bump() {
	l.gen++
}

func (l *lifecycle) acquire(childID int64) error {
	if l.closed {
		return ErrStale
	}
	if l.inFlight == nil {
		l.inFlight = map[int64]bool{}
	}
	if l.inFlight[childID] {
		return ErrMutationInFlight
	}
	l.inFlight[childID] = true
	return nil
}

func (l *lifecycle) release(childID int64) {
	delete(l.inFlight, childID)
}
