// Package groq implements the provider interface against the Groq
// OpenAI-compatible API.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tutorgate/tutorgate/internal/provider"
	"github.com/tutorgate/tutorgate/internal/types"
)

// DefaultBaseURL is the Groq OpenAI-compatible API root.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// requestTimeout is the fixed ceiling for one outbound call.
const requestTimeout = 60 * time.Second

// Client is a thin Groq API client. It performs exactly one outbound
// HTTP call per request and never retries.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a Groq client. An empty baseURL selects the public API.
func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return "groq"
}

// Complete sends a chat-completion request upstream.
func (c *Client) Complete(ctx context.Context, req *types.GenerationRequest) (*types.ChatCompletionResponse, error) {
	payload := types.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Turns,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal upstream request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create upstream request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	respBody, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var out types.ChatCompletionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}
	return &out, nil
}

// do executes one upstream call and returns the response body. Non-2xx
// responses become *provider.UpstreamError with the body verbatim;
// timeouts become provider.ErrUpstreamTimeout.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, provider.ErrUpstreamTimeout
		}
		return nil, fmt.Errorf("call upstream: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &provider.UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
