// Package prompt normalizes heterogeneous client payloads into the
// canonical request shape sent to the upstream model API.
package prompt

import (
	"errors"
	"strings"

	"github.com/tutorgate/tutorgate/internal/types"
)

// ErrNoContent is returned when a payload carries neither messages, a
// prompt, nor text.
var ErrNoContent = errors.New("no prompt/messages provided")

// Payload is the superset of fields accepted by the generation
// endpoints. Which fields matter depends on the endpoint policy.
type Payload struct {
	Messages    []types.ChatTurn `json:"messages,omitempty"`
	Prompt      string           `json:"prompt,omitempty"`
	Text        string           `json:"text,omitempty"`
	Topic       string           `json:"topic,omitempty"`
	Count       int              `json:"count,omitempty"`
	Model       string           `json:"model,omitempty"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Temperature *float64         `json:"temperature,omitempty"`
}

// Template synthesizes the single user turn for a templated endpoint.
type Template func(p *Payload) (string, error)

// Policy carries per-endpoint generation defaults. A nil Template means
// free mode: the payload's own messages/prompt/text are used verbatim.
type Policy struct {
	Model       string
	MaxTokens   int
	Temperature float64
	Template    Template
}

// Normalize resolves a client payload against an endpoint policy.
//
// Free mode resolution order, first match wins: an ordered messages
// sequence used verbatim, then a prompt string, then a text string.
// Templated mode builds the single user turn from the payload instead.
// Caller-supplied model/max_tokens/temperature override the policy
// defaults.
func Normalize(p *Payload, pol Policy) (*types.GenerationRequest, error) {
	req := &types.GenerationRequest{
		Model:       pol.Model,
		MaxTokens:   pol.MaxTokens,
		Temperature: pol.Temperature,
	}
	if p.Model != "" {
		req.Model = p.Model
	}
	if p.MaxTokens > 0 {
		req.MaxTokens = p.MaxTokens
	}
	if p.Temperature != nil && *p.Temperature >= 0 && *p.Temperature <= 2 {
		req.Temperature = *p.Temperature
	}

	if pol.Template != nil {
		content, err := pol.Template(p)
		if err != nil {
			return nil, err
		}
		req.Turns = []types.ChatTurn{types.NewUserTurn(content)}
		return req, nil
	}

	switch {
	case len(p.Messages) > 0:
		req.Turns = p.Messages
	case strings.TrimSpace(p.Prompt) != "":
		req.Turns = []types.ChatTurn{types.NewUserTurn(p.Prompt)}
	case strings.TrimSpace(p.Text) != "":
		req.Turns = []types.ChatTurn{types.NewUserTurn(p.Text)}
	default:
		return nil, ErrNoContent
	}
	return req, nil
}
