package chat

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/easeaico/deskpet/internal/mood"
	"github.com/easeaico/deskpet/internal/types"
)

const petPromptText = `You are a cute desktop pet. Read what the user says and decide how it changes your mood (between 0 and 100).
Your current mood score is {{.Score}}/100.
{{- if .Instruction}}
{{.Instruction}}
{{- end}}
If the user's words make you happy, increase your mood score; if they make you sad, decrease it.
Your reply must end with the mood change in the format (+x) or (-x).
{{- if .History}}

Recent conversation:
{{- range .History}}
User: {{.UserText}}
Pet: {{.Reply}}
{{- end}}
{{- end}}

User: {{.Message}}`

var petPrompt = template.Must(template.New("pet").Parse(petPromptText))

// PromptInput is what the pet-mode prompt is built from.
type PromptInput struct {
	Score   int
	History []types.Transcript
	Message string
}

// BuildPetPrompt renders the prompt that asks the model for a reply plus a
// mood adjustment.
func BuildPetPrompt(in PromptInput) (string, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return "", fmt.Errorf("message cannot be empty")
	}

	data := struct {
		Score       int
		Instruction string
		History     []types.Transcript
		Message     string
	}{
		Score:       in.Score,
		Instruction: mood.Instruction(mood.BandFor(in.Score)),
		History:     in.History,
		Message:     message,
	}

	var buf bytes.Buffer
	if err := petPrompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}
	return buf.String(), nil
}

// CleanReply drops the mood marker so the user only sees the reply.
func CleanReply(raw string) string {
	return mood.StripDelta(raw)
}
