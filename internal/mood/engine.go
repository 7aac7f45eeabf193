// Package mood tracks the pet's bounded mood score and feeding rate.
package mood

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	DefaultFeedWindow      = 30 * time.Second
	DefaultFeedThreshold   = 3
	DefaultFeedReward      = 5
	DefaultOverfeedPenalty = -10
)

// Engine owns the mood score and the feed log.
type Engine struct {
	mu      sync.Mutex
	score   int
	feedLog []time.Time

	clock           clockwork.Clock
	feedWindow      time.Duration
	feedThreshold   int
	feedReward      int
	overfeedPenalty int
	logger          *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithInitialScore sets the starting score. Out-of-range values are clamped.
func WithInitialScore(score int) Option {
	return func(e *Engine) {
		e.score = Clamp(score)
	}
}

// WithClock sets the clock used to timestamp feed events.
func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithFeedWindow sets the trailing window feed events are counted in.
func WithFeedWindow(window time.Duration) Option {
	return func(e *Engine) {
		if window > 0 {
			e.feedWindow = window
		}
	}
}

// WithFeedThreshold sets how many feeds per window are tolerated.
func WithFeedThreshold(threshold int) Option {
	return func(e *Engine) {
		if threshold > 0 {
			e.feedThreshold = threshold
		}
	}
}

// WithFeedReward sets the score change for a feed within the limit.
func WithFeedReward(delta int) Option {
	return func(e *Engine) {
		e.feedReward = delta
	}
}

// WithOverfeedPenalty sets the score change for an overfed call.
func WithOverfeedPenalty(delta int) Option {
	return func(e *Engine) {
		e.overfeedPenalty = delta
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine returns an Engine starting at DefaultScore.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		score:           DefaultScore,
		clock:           clockwork.NewRealClock(),
		feedWindow:      DefaultFeedWindow,
		feedThreshold:   DefaultFeedThreshold,
		feedReward:      DefaultFeedReward,
		overfeedPenalty: DefaultOverfeedPenalty,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyFeedback adds the first adjustment found in text to the score.
// Text without an adjustment leaves the score untouched.
func (e *Engine) ApplyFeedback(text string) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	delta, ok := ParseDelta(text)
	if !ok {
		e.logger.Info("no mood adjustment in model reply, mood unchanged", "score", e.score)
		return e.snapshotLocked()
	}

	prev := e.score
	e.score = Clamp(e.score + delta)
	e.logger.Info("mood adjusted", "delta", delta, "from", prev, "score", e.score)
	return e.snapshotLocked()
}

// Feed records a feed event and reports how many fall inside the window and
// whether that count is over the threshold.
func (e *Engine) Feed() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	kept := e.feedLog[:0]
	for _, ts := range e.feedLog {
		if now.Sub(ts) <= e.feedWindow {
			kept = append(kept, ts)
		}
	}
	e.feedLog = append(kept, now)

	count := len(e.feedLog)
	overfed := count > e.feedThreshold
	prev := e.score
	if overfed {
		e.score = Clamp(e.score + e.overfeedPenalty)
		e.logger.Warn("pet overfed", "feeds_in_window", count, "from", prev, "score", e.score)
	} else {
		e.score = Clamp(e.score + e.feedReward)
		e.logger.Debug("pet fed", "feeds_in_window", count, "from", prev, "score", e.score)
	}
	return count, overfed
}

// Score returns the current score.
func (e *Engine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// State returns a snapshot of the score and feed log.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() State {
	feedLog := make([]time.Time, len(e.feedLog))
	copy(feedLog, e.feedLog)
	return State{Score: e.score, FeedLog: feedLog}
}
