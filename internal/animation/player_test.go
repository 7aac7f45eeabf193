package animation

import (
	"errors"
	"image"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInterval = 100 * time.Millisecond

var errBadFrame = errors.New("bad frame")

func stubDecoder(bad ...string) Decoder {
	return DecoderFunc(func(id string) (image.Image, error) {
		for _, b := range bad {
			if id == b {
				return nil, errBadFrame
			}
		}
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	})
}

func newTestPlayer(t *testing.T, decoder Decoder) (*Player, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	p := NewPlayer(decoder,
		WithClock(clock),
		WithInterval(testInterval),
		WithLogger(slog.New(slog.DiscardHandler)),
	)
	t.Cleanup(p.Close)
	return p, clock
}

func nextEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "event channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for animation event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, ch <-chan Event) {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if ok {
			t.Fatalf("unexpected event: %s %s[%d]", ev.Kind, ev.Set, ev.Index)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPlayerLoopCursorWraps(t *testing.T) {
	p, clock := newTestPlayer(t, stubDecoder())
	events, _ := p.Subscribe(8)
	set := NewFrameSet("idle", []string{"f0", "f1", "f2"})

	p.Start(set, ModeLoop)

	for n := 1; n <= 10; n++ {
		if n > 1 {
			clock.Advance(testInterval)
		}
		ev := nextEvent(t, events)
		require.Equal(t, EventFrame, ev.Kind)
		assert.Equal(t, (n-1)%set.Len(), ev.Index)
		assert.Equal(t, set.At((n-1)%set.Len()), ev.ID)
		assert.NotNil(t, ev.Image)

		state := p.State()
		assert.Equal(t, n%set.Len(), state.Cursor, "after %d ticks", n)
		assert.True(t, state.Active)
	}
}

func TestPlayerOneShotFinishesOnce(t *testing.T) {
	p, clock := newTestPlayer(t, stubDecoder())
	events, _ := p.Subscribe(8)
	set := NewFrameSet("startup", []string{"a", "b", "c", "d"})

	gen := p.Start(set, ModeOneShot)

	frames := 0
	for {
		ev := nextEvent(t, events)
		if ev.Kind == EventFinished {
			assert.Equal(t, gen, ev.Generation)
			break
		}
		require.Equal(t, EventFrame, ev.Kind)
		assert.Equal(t, frames, ev.Index)
		frames++
		clock.Advance(testInterval)
	}
	assert.Equal(t, set.Len(), frames)

	clock.Advance(5 * testInterval)
	assertNoEvent(t, events)

	state := p.State()
	assert.False(t, state.Active)
	assert.Equal(t, set.Len()-1, state.Cursor)
}

func TestPlayerEmptySetIsNoop(t *testing.T) {
	p, clock := newTestPlayer(t, stubDecoder())
	events, _ := p.Subscribe(8)

	p.Start(NewFrameSet("nothing", nil), ModeLoop)

	ev := nextEvent(t, events)
	assert.Equal(t, EventEmpty, ev.Kind)
	assert.ErrorIs(t, ev.Err, ErrEmptyFrameSet)
	assert.False(t, p.State().Active)

	clock.Advance(3 * testInterval)
	assertNoEvent(t, events)
}

func TestPlayerEmptyRetargetHaltsPreviousRun(t *testing.T) {
	p, clock := newTestPlayer(t, stubDecoder())
	events, _ := p.Subscribe(8)

	p.Start(NewFrameSet("idle", []string{"a", "b"}), ModeLoop)
	require.Equal(t, EventFrame, nextEvent(t, events).Kind)

	p.Retarget(NewFrameSet("missing", nil), ModeLoop)
	assert.Equal(t, EventEmpty, nextEvent(t, events).Kind)

	clock.Advance(3 * testInterval)
	assertNoEvent(t, events)
	assert.False(t, p.State().Active)
}

func TestPlayerRetargetDoesNotInterleave(t *testing.T) {
	p, clock := newTestPlayer(t, stubDecoder())
	events, _ := p.Subscribe(16)
	first := NewFrameSet("idle", []string{"i0", "i1", "i2"})
	second := NewFrameSet("speak", []string{"s0", "s1"})

	firstGen := p.Start(first, ModeLoop)
	nextEvent(t, events)
	clock.Advance(testInterval)
	nextEvent(t, events)

	secondGen := p.Retarget(second, ModeLoop)
	require.Greater(t, secondGen, firstGen)

	for i := 0; i < 5; i++ {
		if i > 0 {
			clock.Advance(testInterval)
		}
		ev := nextEvent(t, events)
		assert.Equal(t, secondGen, ev.Generation)
		assert.Equal(t, "speak", ev.Set)
		assert.Equal(t, i%second.Len(), ev.Index, "retarget restarts at the first frame")
	}
}

func TestPlayerSkipsUndecodableFrames(t *testing.T) {
	p, clock := newTestPlayer(t, stubDecoder("b"))
	events, _ := p.Subscribe(8)

	p.Start(NewFrameSet("wave", []string{"a", "b", "c"}), ModeLoop)

	var kinds []EventKind
	for i := 0; i < 4; i++ {
		if i > 0 {
			clock.Advance(testInterval)
		}
		ev := nextEvent(t, events)
		kinds = append(kinds, ev.Kind)
		if ev.Kind == EventSkipped {
			assert.ErrorIs(t, ev.Err, errBadFrame)
			assert.Equal(t, "b", ev.ID)
		}
	}
	assert.Equal(t, []EventKind{EventFrame, EventSkipped, EventFrame, EventFrame}, kinds)
}

func TestPlayerStopIsIdempotent(t *testing.T) {
	p, clock := newTestPlayer(t, stubDecoder())
	events, _ := p.Subscribe(8)

	p.Stop()
	assert.False(t, p.State().Active)

	p.Start(NewFrameSet("idle", []string{"a", "b"}), ModeLoop)
	nextEvent(t, events)

	p.Stop()
	p.Stop()
	assert.False(t, p.State().Active)

	clock.Advance(3 * testInterval)
	assertNoEvent(t, events)
}

func TestPlayerFansOutToAllObservers(t *testing.T) {
	p, _ := newTestPlayer(t, stubDecoder())
	a, _ := p.Subscribe(4)
	b, _ := p.Subscribe(4)

	p.Start(NewFrameSet("idle", []string{"x"}), ModeOneShot)

	for _, ch := range []<-chan Event{a, b} {
		assert.Equal(t, EventFrame, nextEvent(t, ch).Kind)
		assert.Equal(t, EventFinished, nextEvent(t, ch).Kind)
	}
}

func TestPlayerUnsubscribedObserverDoesNotBlock(t *testing.T) {
	p, clock := newTestPlayer(t, stubDecoder())
	_, unsubscribe := p.Subscribe(0)
	events, _ := p.Subscribe(8)
	unsubscribe()

	p.Start(NewFrameSet("idle", []string{"a", "b"}), ModeLoop)
	nextEvent(t, events)
	clock.Advance(testInterval)
	assert.Equal(t, 1, nextEvent(t, events).Index)
}

func TestPlayerRetargetFromObserverDoesNotDeadlock(t *testing.T) {
	p, _ := newTestPlayer(t, stubDecoder())
	events, _ := p.Subscribe(0)

	p.Start(NewFrameSet("startup", []string{"a"}), ModeOneShot)
	require.Equal(t, EventFrame, nextEvent(t, events).Kind)
	require.Equal(t, EventFinished, nextEvent(t, events).Kind)

	done := make(chan struct{})
	go func() {
		p.Retarget(NewFrameSet("idle", []string{"b", "c"}), ModeLoop)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("retarget blocked")
	}
	assert.Equal(t, "idle", nextEvent(t, events).Set)
}

func TestPlayerCloseClosesObservers(t *testing.T) {
	p, _ := newTestPlayer(t, stubDecoder())
	events, _ := p.Subscribe(0)

	p.Start(NewFrameSet("idle", []string{"a", "b"}), ModeLoop)
	p.Close()

	for range events {
	}
	late, _ := p.Subscribe(1)
	_, ok := <-late
	assert.False(t, ok)
	assert.False(t, p.State().Active)
}
