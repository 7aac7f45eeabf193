package utils

import (
	"strings"

	"google.golang.org/genai"
)

// ExtractContentText joins the text parts of content, leaving out model
// thoughts.
func ExtractContentText(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}
