// Package animation plays frame sequences on a background loop and hands
// each frame to observers over channels.
package animation

import (
	"errors"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInterval is the delay between frames.
const DefaultInterval = 100 * time.Millisecond

// ErrEmptyFrameSet is carried by EventEmpty.
var ErrEmptyFrameSet = errors.New("frame set is empty")

// Mode selects cyclic or single playback.
type Mode int

const (
	ModeLoop Mode = iota
	ModeOneShot
)

func (m Mode) String() string {
	switch m {
	case ModeLoop:
		return "loop"
	case ModeOneShot:
		return "oneshot"
	default:
		return "unknown"
	}
}

// EventKind identifies what an Event reports.
type EventKind int

const (
	// EventFrame carries a decoded frame.
	EventFrame EventKind = iota
	// EventSkipped reports a frame that failed to decode.
	EventSkipped
	// EventFinished is sent once after the last frame of a one-shot run.
	EventFinished
	// EventEmpty reports a start on an empty frame set.
	EventEmpty
)

func (k EventKind) String() string {
	switch k {
	case EventFrame:
		return "frame"
	case EventSkipped:
		return "skipped"
	case EventFinished:
		return "finished"
	case EventEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Event is what observers receive.
type Event struct {
	Kind       EventKind
	Generation uint64
	Set        string
	Index      int
	ID         string
	Image      image.Image
	Err        error
}

// PlaybackState is a snapshot of the player.
type PlaybackState struct {
	Set        FrameSet
	Cursor     int
	Mode       Mode
	Active     bool
	Generation uint64
}

type run struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newRun() *run {
	return &run{stop: make(chan struct{}), done: make(chan struct{})}
}

// halt signals the loop and waits for it to exit.
func (r *run) halt() {
	r.once.Do(func() { close(r.stop) })
	<-r.done
}

type subscriber struct {
	ch   chan Event
	gone chan struct{}
}

// Player cycles through a FrameSet on its own goroutine.
type Player struct {
	// ctrl serializes Start, Retarget, Stop and Close.
	ctrl sync.Mutex

	mu      sync.Mutex
	state   PlaybackState
	current *run
	subs    map[int]*subscriber
	nextSub int
	closed  bool

	decoder  Decoder
	clock    clockwork.Clock
	interval time.Duration
	logger   *slog.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithClock sets the clock driving the frame ticker.
func WithClock(clock clockwork.Clock) Option {
	return func(p *Player) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithInterval sets the delay between frames.
func WithInterval(interval time.Duration) Option {
	return func(p *Player) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPlayer returns an idle Player.
func NewPlayer(decoder Decoder, opts ...Option) *Player {
	if decoder == nil {
		decoder = FileDecoder{}
	}
	p := &Player{
		subs:     make(map[int]*subscriber),
		decoder:  decoder,
		clock:    clockwork.NewRealClock(),
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subscribe registers an observer. The returned func removes it.
func (p *Player) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 0 {
		buffer = 0
	}
	s := &subscriber{ch: make(chan Event, buffer), gone: make(chan struct{})}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		close(s.ch)
		return s.ch, func() {}
	}

	id := p.nextSub
	p.nextSub++
	p.subs[id] = s
	return s.ch, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if sub, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(sub.gone)
		}
	}
}

// Start plays set in the given mode, halting any current run first. It
// returns the generation of the new run.
func (p *Player) Start(set FrameSet, mode Mode) uint64 {
	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	p.haltCurrent()

	p.mu.Lock()
	if p.closed {
		gen := p.state.Generation
		p.mu.Unlock()
		return gen
	}
	gen := p.state.Generation + 1
	p.state = PlaybackState{Set: set, Mode: mode, Generation: gen}

	if set.IsEmpty() {
		subs := p.subscribersLocked()
		p.mu.Unlock()
		p.logger.Warn("frame set is empty, nothing to play", "set", set.Name())
		p.notify(subs, Event{Kind: EventEmpty, Generation: gen, Set: set.Name(), Err: ErrEmptyFrameSet})
		return gen
	}

	p.state.Active = true
	r := newRun()
	p.current = r
	p.mu.Unlock()

	p.logger.Debug("animation started", "set", set.Name(), "frames", set.Len(), "mode", mode.String(), "generation", gen)
	go p.loop(r)
	return gen
}

// Retarget switches to a new frame set from its first frame. The previous
// run is fully halted before the new one emits.
func (p *Player) Retarget(set FrameSet, mode Mode) uint64 {
	return p.Start(set, mode)
}

// Stop halts playback. Calling it while idle does nothing.
func (p *Player) Stop() {
	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	p.haltCurrent()

	p.mu.Lock()
	p.state.Active = false
	p.mu.Unlock()
}

// Close stops playback and closes every observer channel.
func (p *Player) Close() {
	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	p.haltCurrent()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.state.Active = false
	for id, s := range p.subs {
		delete(p.subs, id)
		close(s.gone)
		close(s.ch)
	}
}

// State returns a snapshot of the playback state.
func (p *Player) State() PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Player) haltCurrent() {
	p.mu.Lock()
	r := p.current
	p.current = nil
	p.mu.Unlock()

	if r != nil {
		r.halt()
	}
}

func (p *Player) loop(r *run) {
	defer close(r.done)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if !p.tick(r) {
			return
		}
		select {
		case <-r.stop:
			return
		case <-ticker.Chan():
		}
	}
}

// tick emits the frame at the cursor and advances it. It returns false once
// the run should end.
func (p *Player) tick(r *run) bool {
	p.mu.Lock()
	if p.current != r {
		p.mu.Unlock()
		return false
	}
	st := &p.state
	idx := st.Cursor
	set := st.Set
	gen := st.Generation
	finished := false
	switch {
	case idx+1 < set.Len():
		st.Cursor = idx + 1
	case st.Mode == ModeLoop:
		st.Cursor = 0
	default:
		st.Active = false
		finished = true
	}
	subs := p.subscribersLocked()
	p.mu.Unlock()

	id := set.At(idx)
	ev := Event{Kind: EventFrame, Generation: gen, Set: set.Name(), Index: idx, ID: id}
	img, err := p.decoder.Decode(id)
	if err != nil {
		p.logger.Warn("skipping undecodable frame", "set", set.Name(), "frame", id, "error", err.Error())
		ev.Kind = EventSkipped
		ev.Err = err
	} else {
		ev.Image = img
	}

	if !p.deliver(r, subs, ev) {
		return false
	}
	if finished {
		p.logger.Debug("animation finished", "set", set.Name(), "generation", gen)
		p.deliver(r, subs, Event{Kind: EventFinished, Generation: gen, Set: set.Name(), Index: idx})
		return false
	}
	return true
}

func (p *Player) subscribersLocked() []*subscriber {
	subs := make([]*subscriber, 0, len(p.subs))
	for _, s := range p.subs {
		subs = append(subs, s)
	}
	return subs
}

// deliver hands ev to every observer, giving up when the run is halted.
func (p *Player) deliver(r *run, subs []*subscriber, ev Event) bool {
	for _, s := range subs {
		select {
		case s.ch <- ev:
		case <-s.gone:
		case <-r.stop:
			return false
		}
	}
	return true
}

// notify sends a diagnostic without blocking; a full observer misses it.
func (p *Player) notify(subs []*subscriber, ev Event) {
	for _, s := range subs {
		select {
		case s.ch <- ev:
		default:
			p.logger.Warn("observer busy, dropped animation event", "kind", ev.Kind.String(), "set", ev.Set)
		}
	}
}
