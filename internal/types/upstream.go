package types

// ChatCompletionRequest is the OpenAI-compatible payload sent to the
// upstream chat-completions endpoint.
type ChatCompletionRequest struct {
	Model       string     `json:"model"`
	Messages    []ChatTurn `json:"messages"`
	MaxTokens   int        `json:"max_tokens,omitempty"`
	Temperature float64    `json:"temperature"`
}

// ChatCompletionResponse is a non-streaming upstream completion response.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice is a single completion choice. Message carries the content for
// chat models; Text is the legacy completions shape some upstreams still
// return.
type Choice struct {
	Index        int       `json:"index"`
	Message      *ChatTurn `json:"message,omitempty"`
	Text         string    `json:"text,omitempty"`
	FinishReason string    `json:"finish_reason,omitempty"`
}

// Usage reports token counts from upstream.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// TranscriptionResponse is the JSON shape of an audio transcription.
type TranscriptionResponse struct {
	Text string `json:"text"`
}
