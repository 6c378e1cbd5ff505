package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// MCQ question count bounds. Requests outside the range are clamped
// rather than rejected.
const (
	defaultMCQCount = 5
	maxMCQCount     = 20
)

// MCQ builds the instruction for multiple-choice question generation.
func MCQ(p *Payload) (string, error) {
	topic := strings.TrimSpace(p.Topic)
	if topic == "" {
		return "", errors.New("topic is required")
	}
	count := p.Count
	if count <= 0 {
		count = defaultMCQCount
	}
	if count > maxMCQCount {
		count = maxMCQCount
	}
	return fmt.Sprintf("Generate %d multiple choice questions about %q. "+
		"Respond with only a JSON array, no prose. Each element must be an object of the form "+
		`{"type":"MCQ","question":"...","options":["...","...","...","..."],"answer_index":0}`,
		count, topic), nil
}

// Summarize builds the instruction for text summarization.
func Summarize(p *Payload) (string, error) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return "", errors.New("text is required")
	}
	return "Summarize the following text concisely, keeping the key points:\n\n" + text, nil
}

// VideoScript builds the instruction for a video explainer script.
func VideoScript(p *Payload) (string, error) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return "", errors.New("text is required")
	}
	return "Write a short, engaging video explainer script for the following topic or text. " +
		"Use a conversational tone with a hook, a clear explanation, and a closing line:\n\n" + text, nil
}

// ConceptMap builds the instruction for concept-map extraction.
func ConceptMap(p *Payload) (string, error) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return "", errors.New("text is required")
	}
	return "Extract a concept map from the following text. Respond with only JSON of the form " +
		`{"concept":"...","nodes":[{"id":"...","label":"..."}],"edges":[{"from":"...","to":"...","label":"..."}]}` +
		", no prose:\n\n" + text, nil
}
