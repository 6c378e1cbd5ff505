// Package extract derives a usable reply from a raw upstream
// chat-completion response.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/tutorgate/tutorgate/internal/types"
)

// FallbackText is returned when a well-formed upstream response carries
// no generated text. A missing reply is not treated as an error.
const FallbackText = "No response from AI"

// Text locates the generated text in an upstream response: the primary
// chat message content, then the legacy completion text field, then the
// fixed fallback.
func Text(resp *types.ChatCompletionResponse) string {
	if resp == nil || len(resp.Choices) == 0 {
		return FallbackText
	}
	c := resp.Choices[0]
	if c.Message != nil && c.Message.Content != "" {
		return c.Message.Content
	}
	if c.Text != "" {
		return c.Text
	}
	return FallbackText
}

// StructuredOrRaw is the result of a structured-mode extraction. Exactly
// one branch is populated: Structured holds the reply parsed as JSON,
// Raw holds the unparseable original text.
type StructuredOrRaw struct {
	Structured json.RawMessage
	Raw        string
}

// IsStructured reports whether the structured branch is populated.
func (s StructuredOrRaw) IsStructured() bool {
	return s.Structured != nil
}

// MarshalJSON emits the parsed value when present, otherwise the raw
// wrapper {"raw": text}.
func (s StructuredOrRaw) MarshalJSON() ([]byte, error) {
	if s.Structured != nil {
		return s.Structured, nil
	}
	return json.Marshal(map[string]string{"raw": s.Raw})
}

// ParseOrRaw attempts to parse the reply text as JSON. Parse failure is
// not an error: it degrades to the raw branch. Markdown code fences are
// stripped first, since models habitually wrap JSON replies in them.
func ParseOrRaw(text string) StructuredOrRaw {
	candidate := strings.TrimSpace(stripFences(text))
	if candidate != "" && json.Valid([]byte(candidate)) {
		return StructuredOrRaw{Structured: json.RawMessage(candidate)}
	}
	return StructuredOrRaw{Raw: text}
}

// stripFences removes a surrounding markdown code fence, with or
// without a language tag. Text without a fence is returned unchanged.
func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	i := strings.IndexByte(t, '\n')
	if i < 0 {
		return s
	}
	t = t[i+1:]
	t = strings.TrimSpace(t)
	if !strings.HasSuffix(t, "```") {
		return s
	}
	return strings.TrimSuffix(t, "```")
}
