// Package provider defines the upstream model API contract used by the
// gateway handlers.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tutorgate/tutorgate/internal/types"
)

// ErrUpstreamTimeout is returned when the upstream call exceeds the
// configured ceiling. No retry is attempted.
var ErrUpstreamTimeout = errors.New("upstream request timed out")

// UpstreamError is a non-success response from the model API. Body is
// the upstream error body, kept verbatim for the caller.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// TranscribeInput carries one uploaded audio file for transcription.
type TranscribeInput struct {
	File     io.Reader
	Filename string
	Model    string
}

// Provider is the upstream model API. One call in, one response out;
// implementations must not retry.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Complete sends a normalized generation request and returns the
	// upstream completion response.
	Complete(ctx context.Context, req *types.GenerationRequest) (*types.ChatCompletionResponse, error)

	// Transcribe converts an uploaded audio file to text.
	Transcribe(ctx context.Context, in TranscribeInput) (string, error)
}
