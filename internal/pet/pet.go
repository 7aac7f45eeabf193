// Package pet ties the mood engine to the animation player: it decides which
// animation plays for the current mood and drives chat, feeding, dragging
// and head-touch interactions.
package pet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/easeaico/deskpet/internal/animation"
	"github.com/easeaico/deskpet/internal/chat"
	"github.com/easeaico/deskpet/internal/mood"
	"github.com/easeaico/deskpet/internal/types"
)

// ErrEmptyMessage is returned by Chat for blank input.
var ErrEmptyMessage = errors.New("message cannot be empty")

const eventBuffer = 16

// TranscriptRepo stores and reads chat exchanges.
type TranscriptRepo interface {
	Create(ctx context.Context, t *types.Transcript) error
	Recent(ctx context.Context, sessionID string, limit int) ([]types.Transcript, error)
}

// Reply is the outcome of a chat turn.
type Reply struct {
	Text    string
	Raw     string
	Delta   int
	Matched bool
	Mood    mood.State
}

// FeedResult is the outcome of a feed.
type FeedResult struct {
	Count   int
	Overfed bool
	Score   int
}

// Pet coordinates animations with mood.
type Pet struct {
	player       *animation.Player
	mood         *mood.Engine
	sender       chat.Sender
	anims        Animations
	history      TranscriptRepo
	sessionID    string
	historyLimit int
	logger       *slog.Logger

	events      <-chan animation.Event
	unsubscribe func()

	mu         sync.Mutex
	petMode    bool
	dragged    bool
	touching   bool
	speaking   bool
	pendingGen uint64
	then       func()
}

// Option configures a Pet.
type Option func(*Pet)

// WithHistory records every chat turn and feeds recent turns into prompts.
func WithHistory(repo TranscriptRepo) Option {
	return func(p *Pet) {
		p.history = repo
	}
}

// WithSessionID tags stored transcripts.
func WithSessionID(id string) Option {
	return func(p *Pet) {
		p.sessionID = id
	}
}

// WithHistoryLimit caps how many past turns go into a prompt.
func WithHistoryLimit(limit int) Option {
	return func(p *Pet) {
		p.historyLimit = limit
	}
}

// WithPetMode sets whether chat goes through the mood prompt.
func WithPetMode(enabled bool) Option {
	return func(p *Pet) {
		p.petMode = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pet) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New returns a Pet. It subscribes to the player right away so no
// completion is missed before Run starts.
func New(player *animation.Player, engine *mood.Engine, sender chat.Sender, anims Animations, opts ...Option) *Pet {
	p := &Pet{
		player:       player,
		mood:         engine,
		sender:       sender,
		anims:        anims,
		historyLimit: 10,
		petMode:      true,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.events, p.unsubscribe = player.Subscribe(eventBuffer)
	return p
}

// Run plays the startup animation, switches to idle once it ends, and
// handles player events until ctx is done.
func (p *Pet) Run(ctx context.Context) error {
	defer p.unsubscribe()

	p.play(p.anims.Startup, animation.ModeOneShot, p.refresh)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-p.events:
			if !ok {
				return nil
			}
			p.handle(ev)
		}
	}
}

func (p *Pet) handle(ev animation.Event) {
	if ev.Kind != animation.EventFinished {
		return
	}

	p.mu.Lock()
	var then func()
	if ev.Generation == p.pendingGen {
		then = p.then
		p.pendingGen, p.then = 0, nil
	}
	p.mu.Unlock()

	if then != nil {
		then()
	}
}

// play starts set; then runs once a one-shot set completes.
func (p *Pet) play(set animation.FrameSet, mode animation.Mode, then func()) {
	chain := mode == animation.ModeOneShot && then != nil

	p.mu.Lock()
	gen := p.player.Start(set, mode)
	p.pendingGen, p.then = 0, nil
	if chain && !set.IsEmpty() {
		p.pendingGen, p.then = gen, then
	}
	p.mu.Unlock()

	if chain && set.IsEmpty() {
		then()
	}
}

// refresh plays whatever fits the current state and mood.
func (p *Pet) refresh() {
	p.mu.Lock()
	touching, speaking, dragged := p.touching, p.speaking, p.dragged
	p.mu.Unlock()

	if touching {
		return
	}
	band := mood.BandFor(p.mood.Score())
	switch {
	case dragged:
		p.play(p.anims.Raised, animation.ModeLoop, nil)
	case speaking:
		p.play(p.anims.Speaking[band], animation.ModeLoop, nil)
	default:
		p.play(p.anims.Idle[band], animation.ModeLoop, nil)
	}
}

func (p *Pet) setSpeaking(speaking bool) {
	p.mu.Lock()
	p.speaking = speaking
	p.mu.Unlock()
	p.refresh()
}

// Chat sends text to the model. In pet mode the reply's mood marker is
// applied and stripped. The pet plays its speaking animation while waiting
// and goes back to idle afterwards.
func (p *Pet) Chat(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}

	p.setSpeaking(true)
	defer p.setSpeaking(false)

	petMode := p.PetMode()
	prompt := text
	if petMode {
		built, err := chat.BuildPetPrompt(chat.PromptInput{
			Score:   p.mood.Score(),
			History: p.recentHistory(ctx),
			Message: text,
		})
		if err != nil {
			return Reply{}, err
		}
		prompt = built
	}

	raw, err := p.sender.Send(ctx, prompt)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to chat with model: %w", err)
	}

	reply := Reply{Text: raw, Raw: raw}
	if petMode {
		reply.Delta, reply.Matched = mood.ParseDelta(raw)
		p.mood.ApplyFeedback(raw)
		reply.Text = chat.CleanReply(raw)
	}
	reply.Mood = p.mood.State()

	p.record(ctx, text, reply, petMode)
	return reply, nil
}

// Feed feeds the pet and refreshes its animation for the new mood.
func (p *Pet) Feed() FeedResult {
	count, overfed := p.mood.Feed()
	p.refresh()
	return FeedResult{Count: count, Overfed: overfed, Score: p.mood.Score()}
}

// SetDragged switches to the raised animation while the pet is held.
func (p *Pet) SetDragged(dragged bool) {
	p.mu.Lock()
	changed := p.dragged != dragged
	p.dragged = dragged
	p.mu.Unlock()

	if changed {
		p.refresh()
	}
}

// TouchHead plays the head-touch intro once, then loops the petting frames.
// It returns false if the head is already being touched.
func (p *Pet) TouchHead() bool {
	p.mu.Lock()
	if p.touching {
		p.mu.Unlock()
		return false
	}
	p.touching = true
	p.mu.Unlock()

	p.play(p.anims.TouchStart, animation.ModeOneShot, func() {
		p.mu.Lock()
		touching := p.touching
		p.mu.Unlock()
		if touching {
			p.play(p.anims.TouchLoop, animation.ModeLoop, nil)
		}
	})
	return true
}

// ReleaseHead plays the head-touch outro once, then returns to idle.
// It returns false if the head was not being touched.
func (p *Pet) ReleaseHead() bool {
	p.mu.Lock()
	if !p.touching {
		p.mu.Unlock()
		return false
	}
	p.touching = false
	p.mu.Unlock()

	p.play(p.anims.TouchEnd, animation.ModeOneShot, p.refresh)
	return true
}

// TogglePetMode flips pet mode and returns the new value.
func (p *Pet) TogglePetMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.petMode = !p.petMode
	return p.petMode
}

// PetMode reports whether chat goes through the mood prompt.
func (p *Pet) PetMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.petMode
}

// Mood returns the current mood snapshot.
func (p *Pet) Mood() mood.State {
	return p.mood.State()
}

func (p *Pet) recentHistory(ctx context.Context) []types.Transcript {
	if p.history == nil || p.historyLimit <= 0 {
		return nil
	}
	recent, err := p.history.Recent(ctx, p.sessionID, p.historyLimit)
	if err != nil {
		p.logger.Warn("failed to load chat history", "error", err.Error())
		return nil
	}
	return recent
}

func (p *Pet) record(ctx context.Context, userText string, reply Reply, petMode bool) {
	if p.history == nil {
		return
	}
	t := &types.Transcript{
		SessionID: p.sessionID,
		UserText:  userText,
		RawReply:  reply.Raw,
		Reply:     reply.Text,
		Delta:     reply.Delta,
		Matched:   reply.Matched,
		MoodScore: reply.Mood.Score,
		PetMode:   petMode,
	}
	if err := p.history.Create(ctx, t); err != nil {
		p.logger.Warn("failed to save transcript", "error", err.Error())
	}
}
