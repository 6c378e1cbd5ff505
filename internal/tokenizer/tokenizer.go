// Package tokenizer provides prompt token counting for request logging.
package tokenizer

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/tutorgate/tutorgate/internal/types"
)

// Tokenizer counts tokens for generation requests. Counts feed the
// request log when upstream omits usage; they are estimates, not
// billing-grade numbers.
type Tokenizer interface {
	// CountTokens counts tokens in a text string for a given model.
	CountTokens(text string, model string) (int, error)

	// CountTurns counts prompt tokens for a conversation.
	CountTurns(turns []types.ChatTurn, model string) (int, error)
}

// Encoding names used by tiktoken.
const (
	EncodingCL100kBase = "cl100k_base" // GPT-4, GPT-3.5-turbo era; decent llama estimate
	EncodingO200kBase  = "o200k_base"  // GPT-4o, o1 models
)

// Per-message overhead and reply priming, per OpenAI's counting rules.
const (
	messageOverhead    = 4
	replyPrimingTokens = 3
)

// modelEncoding pairs a prefix with its encoding.
type modelEncoding struct {
	prefix   string
	encoding string
}

// modelEncodings lists model prefixes and their encodings.
// Ordered so longer prefixes match first.
var modelEncodings = []modelEncoding{
	{"gpt-4o", EncodingO200kBase}, // Must come before "gpt-4"
	{"gpt-4", EncodingCL100kBase},
	{"gpt-3.5", EncodingCL100kBase},
	{"o1", EncodingO200kBase},
	{"o3", EncodingO200kBase},
}

// TiktokenTokenizer implements Tokenizer using tiktoken-go.
type TiktokenTokenizer struct {
	mu        sync.RWMutex
	encodings map[string]*tiktoken.Tiktoken
}

// New creates a new TiktokenTokenizer.
func New() *TiktokenTokenizer {
	return &TiktokenTokenizer{
		encodings: make(map[string]*tiktoken.Tiktoken),
	}
}

// getEncoding returns the tiktoken encoding for a model, with caching.
func (t *TiktokenTokenizer) getEncoding(model string) (*tiktoken.Tiktoken, error) {
	encodingName := t.resolveEncoding(model)

	t.mu.RLock()
	enc, ok := t.encodings[encodingName]
	t.mu.RUnlock()
	if ok {
		return enc, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Double-check after acquiring write lock
	if enc, ok = t.encodings[encodingName]; ok {
		return enc, nil
	}

	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	t.encodings[encodingName] = enc
	return enc, nil
}

// resolveEncoding determines the encoding name for a model. Unknown
// families (llama, mixtral, gemma) fall back to cl100k_base.
func (t *TiktokenTokenizer) resolveEncoding(model string) string {
	modelLower := strings.ToLower(model)
	for _, me := range modelEncodings {
		if strings.HasPrefix(modelLower, me.prefix) {
			return me.encoding
		}
	}
	return EncodingCL100kBase
}

// CountTokens counts tokens in a text string for a given model.
func (t *TiktokenTokenizer) CountTokens(text string, model string) (int, error) {
	enc, err := t.getEncoding(model)
	if err != nil {
		return 0, err
	}
	tokens := enc.Encode(text, nil, nil)
	return len(tokens), nil
}

// CountTurns counts prompt tokens for a conversation, with per-message
// overhead and reply priming.
func (t *TiktokenTokenizer) CountTurns(turns []types.ChatTurn, model string) (int, error) {
	total := 0
	for _, turn := range turns {
		roleTokens, err := t.CountTokens(turn.Role, model)
		if err != nil {
			return 0, err
		}
		contentTokens, err := t.CountTokens(turn.Content, model)
		if err != nil {
			return 0, err
		}
		total += roleTokens + contentTokens + messageOverhead
	}
	total += replyPrimingTokens
	return total, nil
}
