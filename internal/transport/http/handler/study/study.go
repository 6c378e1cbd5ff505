// Package study implements the study-assistant generation endpoints.
// Every endpoint follows the same pipeline: normalize the client
// payload, make one upstream call, extract the reply, log the request.
package study

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tutorgate/tutorgate/internal/cache"
	"github.com/tutorgate/tutorgate/internal/extract"
	"github.com/tutorgate/tutorgate/internal/prompt"
	"github.com/tutorgate/tutorgate/internal/provider"
	"github.com/tutorgate/tutorgate/internal/storage"
	"github.com/tutorgate/tutorgate/internal/tokenizer"
	"github.com/tutorgate/tutorgate/internal/transport/http/handler/shared"
	"github.com/tutorgate/tutorgate/internal/transport/http/middleware"
	"github.com/tutorgate/tutorgate/internal/types"
)

// maxBodyBytes bounds generation request bodies. Study prompts are
// text; anything past 1 MiB is not a legitimate request.
const maxBodyBytes = 1 << 20

// Handlers holds the dependencies for the study endpoints.
type Handlers struct {
	Provider  provider.Provider
	Policies  map[string]prompt.Policy
	Storage   storage.Storage
	Tokenizer tokenizer.Tokenizer
	Cache     *cache.ResponseCache
	Logger    *slog.Logger

	// WhisperModel is the default transcription model.
	WhisperModel string
}

// New creates a new instance of study handlers.
func New(prov provider.Provider, policies map[string]prompt.Policy, store storage.Storage, tok tokenizer.Tokenizer, respCache *cache.ResponseCache, logger *slog.Logger, whisperModel string) *Handlers {
	return &Handlers{
		Provider:     prov,
		Policies:     policies,
		Storage:      store,
		Tokenizer:    tok,
		Cache:        respCache,
		Logger:       logger,
		WhisperModel: whisperModel,
	}
}

// shaper converts the extracted reply text into the endpoint's response
// body. Structured endpoints use extract.ParseOrRaw instead.
type shaper func(text string) any

// generate runs the shared pipeline for a text-generation endpoint.
// structured selects JSON-parse-or-raw extraction; cacheable endpoints
// reuse successful structured results for identical payloads.
func (h *Handlers) generate(w http.ResponseWriter, r *http.Request, endpoint string, structured bool, shapeFn shaper) {
	requestID := tracingID(r)
	start := time.Now()

	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("failed to read request body"))
		return
	}

	var payload prompt.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("invalid JSON payload"))
		return
	}

	req, err := prompt.Normalize(&payload, h.Policies[endpoint])
	if err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest(err.Error()))
		return
	}

	// Identical structured requests within the cache TTL are served
	// without an upstream call.
	var cacheKey string
	if structured && h.Cache != nil {
		cacheKey = cache.Key(endpoint, body)
		if cached, ok := h.Cache.Get(cacheKey); ok {
			w.Header().Set("X-Cache", "HIT")
			shared.WriteJSONBytes(w, cached, http.StatusOK)
			return
		}
	}

	resp, err := h.Provider.Complete(r.Context(), req)
	if err != nil {
		status := h.writeProviderError(w, err)
		go h.logRequest(requestID, endpoint, req, nil, status, err.Error(), start)
		return
	}

	text := extract.Text(resp)
	var out any
	if structured {
		result := extract.ParseOrRaw(text)
		if result.IsStructured() && cacheKey != "" {
			if data, merr := json.Marshal(result); merr == nil {
				h.Cache.Set(cacheKey, data)
			}
		}
		out = result
	} else {
		out = shapeFn(text)
	}

	shared.WriteJSON(w, out, http.StatusOK)
	go h.logRequest(requestID, endpoint, req, resp, http.StatusOK, "", start)
}

// tracingID returns the request ID issued by the middleware so the
// stored log row matches the X-Request-ID header and the slog line.
// Handlers invoked without the middleware get a fresh ID.
func tracingID(r *http.Request) string {
	if id := middleware.GetRequestID(r.Context()); id != "" {
		return id
	}
	return uuid.New().String()
}

// writeProviderError maps a provider failure to the error taxonomy and
// returns the status code written. Upstream failures surface as 502
// (non-2xx reply, status carried in error.code) or 504 (timeout);
// plain 500 is reserved for the gateway's own faults.
func (h *Handlers) writeProviderError(w http.ResponseWriter, err error) int {
	var ue *provider.UpstreamError
	switch {
	case errors.As(err, &ue):
		// Upstream status and body are surfaced verbatim.
		apiErr := types.NewAPIErrorWithCode(ue.Error(), types.ErrorTypeUpstream, strconv.Itoa(ue.StatusCode))
		types.WriteError(w, http.StatusBadGateway, apiErr)
		return http.StatusBadGateway
	case errors.Is(err, provider.ErrUpstreamTimeout):
		types.WriteError(w, http.StatusGatewayTimeout, types.NewAPIError("upstream request timed out", types.ErrorTypeUpstreamTimeout))
		return http.StatusGatewayTimeout
	default:
		if h.Logger != nil {
			h.Logger.Error("upstream call failed", "error", err)
		}
		types.WriteError(w, http.StatusInternalServerError, types.ErrServer("internal server error"))
		return http.StatusInternalServerError
	}
}

// logRequest records the request to storage asynchronously. Token
// counts come from upstream usage when present, otherwise from the
// local tokenizer estimate.
func (h *Handlers) logRequest(requestID, endpoint string, req *types.GenerationRequest, resp *types.ChatCompletionResponse, status int, errMsg string, start time.Time) {
	if h.Storage == nil {
		return
	}

	var promptTokens, completionTokens, totalTokens int
	if resp != nil && resp.Usage != nil {
		promptTokens = resp.Usage.PromptTokens
		completionTokens = resp.Usage.CompletionTokens
		totalTokens = resp.Usage.TotalTokens
	} else if h.Tokenizer != nil && req != nil {
		if n, err := h.Tokenizer.CountTurns(req.Turns, req.Model); err == nil {
			promptTokens = n
		}
	}
	if totalTokens == 0 {
		totalTokens = promptTokens + completionTokens
	}

	model := ""
	if req != nil {
		model = req.Model
	}

	entry := &storage.RequestLog{
		ID:               uuid.New().String(),
		RequestID:        requestID,
		Endpoint:         endpoint,
		Model:            model,
		Provider:         h.Provider.Name(),
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      totalTokens,
		StatusCode:       status,
		ErrorMessage:     errMsg,
		DurationMs:       time.Since(start).Milliseconds(),
		CreatedAt:        time.Now(),
	}
	_ = h.Storage.LogRequest(entry)

	errorCount := 0
	if status >= 400 {
		errorCount = 1
	}
	_ = h.Storage.UpdateDailyUsage(&storage.DailyUsage{
		Date:             time.Now().Format("2006-01-02"),
		Endpoint:         endpoint,
		Model:            model,
		RequestCount:     1,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      totalTokens,
		ErrorCount:       errorCount,
	})
}
