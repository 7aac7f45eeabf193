// Package console turns lines of user input into pet interactions. Lines
// starting with "/" are commands, anything else is chat.
package console

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"text/template"

	"github.com/easeaico/deskpet/internal/mood"
	"github.com/easeaico/deskpet/internal/pet"
)

// ErrQuit is returned by Handle when the user asks to leave.
var ErrQuit = errors.New("quit requested")

const (
	tplHelp    = "help"
	tplReply   = "reply"
	tplError   = "error"
	tplFed     = "fed"
	tplOverfed = "overfed"
	tplMood    = "mood"
	tplPetMode = "petmode"
	tplDrag    = "drag"
	tplDrop    = "drop"
	tplTouch   = "touch"
	tplRelease = "release"
	tplIgnored = "ignored"
	tplUnknown = "unknown"
)

var templatesText = `
{{define "help"}}Commands:
  /feed     give the pet a snack
  /mood     show the mood score
  /pet      toggle pet mode (mood-aware chat)
  /drag     pick the pet up
  /drop     put the pet down
  /touch    start patting its head
  /release  stop patting
  /quit     leave
Anything else is sent to the pet as chat.{{end}}
{{define "reply"}}{{.Text}}{{if .Matched}} [mood {{.Score}}/100]{{end}}{{end}}
{{define "error"}}The pet tilts its head. Something went wrong, try again later.{{end}}
{{define "fed"}}Nom nom! (snacks in window: {{.Count}}, mood {{.Score}}/100){{end}}
{{define "overfed"}}Too much food... the pet feels sick. (snacks in window: {{.Count}}, mood {{.Score}}/100){{end}}
{{define "mood"}}Mood {{.Score}}/100 ({{.Band}}), pet mode {{if .PetMode}}on{{else}}off{{end}}{{end}}
{{define "petmode"}}Pet mode {{if .PetMode}}on{{else}}off{{end}}.{{end}}
{{define "drag"}}Wheee, the pet is up in the air!{{end}}
{{define "drop"}}The pet is back on the desk.{{end}}
{{define "touch"}}The pet leans into your hand.{{end}}
{{define "release"}}The pet looks up at you.{{end}}
{{define "ignored"}}Nothing happens.{{end}}
{{define "unknown"}}Unknown command {{.Command}}, try /help.{{end}}
`

var templates = template.Must(template.New("console").Parse(templatesText))

// Pet is what the console drives.
type Pet interface {
	Chat(ctx context.Context, text string) (pet.Reply, error)
	Feed() pet.FeedResult
	SetDragged(dragged bool)
	TouchHead() bool
	ReleaseHead() bool
	TogglePetMode() bool
	PetMode() bool
	Mood() mood.State
}

// Console dispatches input lines.
type Console struct {
	pet    Pet
	logger *slog.Logger
}

// New returns a Console. A nil logger falls back to slog.Default.
func New(p Pet, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{pet: p, logger: logger}
}

// Handle processes one line and returns the text to show. Blank lines yield
// an empty response. It returns ErrQuit for /quit and /exit.
func (c *Console) Handle(ctx context.Context, line string) (string, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", nil
	}
	if !strings.HasPrefix(trimmed, "/") {
		return c.chat(ctx, trimmed), nil
	}

	command, _, _ := strings.Cut(trimmed, " ")
	switch strings.ToLower(command) {
	case "/help":
		return render(tplHelp, nil), nil
	case "/quit", "/exit":
		return "", ErrQuit
	case "/feed":
		res := c.pet.Feed()
		if res.Overfed {
			return render(tplOverfed, res), nil
		}
		return render(tplFed, res), nil
	case "/mood":
		st := c.pet.Mood()
		return render(tplMood, map[string]any{
			"Score":   st.Score,
			"Band":    st.Band(),
			"PetMode": c.pet.PetMode(),
		}), nil
	case "/pet":
		return render(tplPetMode, map[string]any{"PetMode": c.pet.TogglePetMode()}), nil
	case "/drag":
		c.pet.SetDragged(true)
		return render(tplDrag, nil), nil
	case "/drop":
		c.pet.SetDragged(false)
		return render(tplDrop, nil), nil
	case "/touch":
		if !c.pet.TouchHead() {
			return render(tplIgnored, nil), nil
		}
		return render(tplTouch, nil), nil
	case "/release":
		if !c.pet.ReleaseHead() {
			return render(tplIgnored, nil), nil
		}
		return render(tplRelease, nil), nil
	default:
		return render(tplUnknown, map[string]any{"Command": command}), nil
	}
}

func (c *Console) chat(ctx context.Context, text string) string {
	reply, err := c.pet.Chat(ctx, text)
	if err != nil {
		c.logger.Error("failed to chat", "error", err.Error())
		return render(tplError, nil)
	}
	return render(tplReply, map[string]any{
		"Text":    reply.Text,
		"Matched": reply.Matched,
		"Score":   reply.Mood.Score,
	})
}

func render(name string, data any) string {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("failed to execute template", "template", name, "error", err.Error())
		return "Something went wrong."
	}
	return buf.String()
}
