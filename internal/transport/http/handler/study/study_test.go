package study

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tutorgate/tutorgate/internal/cache"
	"github.com/tutorgate/tutorgate/internal/config"
	"github.com/tutorgate/tutorgate/internal/prompt"
	"github.com/tutorgate/tutorgate/internal/provider"
	"github.com/tutorgate/tutorgate/internal/storage"
	"github.com/tutorgate/tutorgate/internal/transport/http/middleware"
	"github.com/tutorgate/tutorgate/internal/types"
)

// fakeProvider returns a canned reply and records the last request.
type fakeProvider struct {
	replyText  string
	transcript string
	err        error
	lastReq    *types.GenerationRequest
	calls      int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, req *types.GenerationRequest) (*types.ChatCompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &types.ChatCompletionResponse{
		Choices: []types.Choice{
			{Message: &types.ChatTurn{Role: types.RoleAssistant, Content: f.replyText}},
		},
		Usage: &types.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
	}, nil
}

func (f *fakeProvider) Transcribe(_ context.Context, _ provider.TranscribeInput) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

func testPolicies() map[string]prompt.Policy {
	return map[string]prompt.Policy{
		config.EndpointChat:      {Model: "test-model", MaxTokens: 800, Temperature: 0.7},
		config.EndpointMCQ:       {Model: "test-model", MaxTokens: 1000, Temperature: 0.7, Template: prompt.MCQ},
		config.EndpointSummarize: {Model: "test-model", MaxTokens: 600, Temperature: 0.3, Template: prompt.Summarize},
	}
}

func newTestHandlers(t *testing.T, prov *fakeProvider, respCache *cache.ResponseCache) *Handlers {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(prov, testPolicies(), nil, nil, respCache, logger, "whisper-large-v3")
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestChatReturnsAnswer(t *testing.T) {
	prov := &fakeProvider{replyText: "Photosynthesis converts light to energy."}
	h := newTestHandlers(t, prov, nil)

	w := postJSON(t, h.Chat, `{"prompt":"What is photosynthesis?"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["answer"] != "Photosynthesis converts light to energy." {
		t.Errorf("answer: got %q", resp["answer"])
	}

	if prov.lastReq.Model != "test-model" || prov.lastReq.MaxTokens != 800 {
		t.Errorf("policy not applied: %+v", prov.lastReq)
	}
	if len(prov.lastReq.Turns) != 1 || prov.lastReq.Turns[0].Content != "What is photosynthesis?" {
		t.Errorf("turns: got %+v", prov.lastReq.Turns)
	}
}

func TestChatForwardsMessagesVerbatim(t *testing.T) {
	prov := &fakeProvider{replyText: "ok"}
	h := newTestHandlers(t, prov, nil)

	w := postJSON(t, h.Chat, `{"messages":[{"role":"system","content":"be brief"},{"role":"user","content":"hi"}]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	turns := prov.lastReq.Turns
	if len(turns) != 2 || turns[0].Role != types.RoleSystem || turns[1].Content != "hi" {
		t.Errorf("turns: got %+v", turns)
	}
}

func TestChatRejectsEmptyPayload(t *testing.T) {
	prov := &fakeProvider{replyText: "ok"}
	h := newTestHandlers(t, prov, nil)

	w := postJSON(t, h.Chat, `{}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", w.Code)
	}
	var apiErr types.APIError
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Error.Type != types.ErrorTypeInvalidRequest {
		t.Errorf("error type: got %q", apiErr.Error.Type)
	}
	if prov.calls != 0 {
		t.Errorf("provider called %d times for invalid payload", prov.calls)
	}
}

func TestChatRejectsMalformedJSON(t *testing.T) {
	h := newTestHandlers(t, &fakeProvider{}, nil)

	w := postJSON(t, h.Chat, `{not json`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", w.Code)
	}
}

func TestMCQReturnsParsedArray(t *testing.T) {
	prov := &fakeProvider{replyText: `[{"type":"MCQ","question":"Q1","options":["a","b","c","d"],"answer_index":2}]`}
	h := newTestHandlers(t, prov, nil)

	w := postJSON(t, h.MCQ, `{"topic":"Cells","count":1}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	var questions []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &questions); err != nil {
		t.Fatalf("expected JSON array, got %s", w.Body.String())
	}
	if len(questions) != 1 || questions[0]["question"] != "Q1" {
		t.Errorf("questions: got %+v", questions)
	}
}

func TestMCQWrapsUnparseableReply(t *testing.T) {
	prov := &fakeProvider{replyText: "Sorry, I can't do that."}
	h := newTestHandlers(t, prov, nil)

	w := postJSON(t, h.MCQ, `{"topic":"Cells"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["raw"] != "Sorry, I can't do that." {
		t.Errorf("raw: got %q", resp["raw"])
	}
}

func TestMCQRequiresTopic(t *testing.T) {
	h := newTestHandlers(t, &fakeProvider{}, nil)

	w := postJSON(t, h.MCQ, `{"count":5}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", w.Code)
	}
}

func TestMCQServesCachedStructuredResult(t *testing.T) {
	respCache, err := cache.New()
	if err != nil {
		t.Fatalf("create cache: %v", err)
	}
	prov := &fakeProvider{replyText: `[{"type":"MCQ","question":"Q1","options":["a","b"],"answer_index":0}]`}
	h := newTestHandlers(t, prov, respCache)

	body := `{"topic":"Cells","count":1}`
	first := postJSON(t, h.MCQ, body)
	if first.Code != http.StatusOK {
		t.Fatalf("first request: got %d", first.Code)
	}
	respCache.Wait()

	second := postJSON(t, h.MCQ, body)
	if second.Code != http.StatusOK {
		t.Fatalf("second request: got %d", second.Code)
	}
	if second.Header().Get("X-Cache") != "HIT" {
		t.Error("expected cache hit on identical payload")
	}
	if prov.calls != 1 {
		t.Errorf("provider calls: got %d, want 1", prov.calls)
	}
	if strings.TrimSpace(first.Body.String()) != strings.TrimSpace(second.Body.String()) {
		t.Errorf("cached body differs: %s vs %s", first.Body.String(), second.Body.String())
	}
}

func TestSummarizeReturnsSummary(t *testing.T) {
	prov := &fakeProvider{replyText: "A short summary."}
	h := newTestHandlers(t, prov, nil)

	w := postJSON(t, h.Summarize, `{"text":"a very long passage about mitochondria"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["summary"] != "A short summary." {
		t.Errorf("summary: got %q", resp["summary"])
	}
	if prov.lastReq.MaxTokens != 600 || prov.lastReq.Temperature != 0.3 {
		t.Errorf("summarize policy not applied: %+v", prov.lastReq)
	}
}

func TestUpstreamErrorMapsToBadGateway(t *testing.T) {
	prov := &fakeProvider{err: &provider.UpstreamError{
		StatusCode: http.StatusUnauthorized,
		Body:       []byte(`{"error":"bad key"}`),
	}}
	h := newTestHandlers(t, prov, nil)

	w := postJSON(t, h.Chat, `{"prompt":"hi"}`)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d", w.Code)
	}
	var apiErr types.APIError
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Error.Type != types.ErrorTypeUpstream {
		t.Errorf("error type: got %q", apiErr.Error.Type)
	}
	if !strings.Contains(apiErr.Error.Message, `{"error":"bad key"}`) {
		t.Errorf("upstream body lost: %q", apiErr.Error.Message)
	}
	if apiErr.Error.Code == nil || *apiErr.Error.Code != "401" {
		t.Errorf("code: got %v", apiErr.Error.Code)
	}
}

func TestUpstreamTimeoutMapsToGatewayTimeout(t *testing.T) {
	prov := &fakeProvider{err: provider.ErrUpstreamTimeout}
	h := newTestHandlers(t, prov, nil)

	w := postJSON(t, h.Chat, `{"prompt":"hi"}`)

	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("status: got %d", w.Code)
	}
	var apiErr types.APIError
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Error.Type != types.ErrorTypeUpstreamTimeout {
		t.Errorf("error type: got %q", apiErr.Error.Type)
	}
}

func multipartAudioRequest(t *testing.T, includeFile bool, model string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if includeFile {
		part, err := mw.CreateFormFile("file", "lecture.mp3")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte("fake audio")); err != nil {
			t.Fatalf("write audio: %v", err)
		}
	}
	if model != "" {
		if err := mw.WriteField("model", model); err != nil {
			t.Fatalf("write model field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/voice", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestVoiceReturnsTranscript(t *testing.T) {
	prov := &fakeProvider{transcript: "hello from the lecture"}
	h := newTestHandlers(t, prov, nil)

	w := httptest.NewRecorder()
	h.Voice(w, multipartAudioRequest(t, true, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["transcript"] != "hello from the lecture" {
		t.Errorf("transcript: got %q", resp["transcript"])
	}
}

// capturingStore hands logged rows to the test over a channel, since
// logging runs on its own goroutine.
type capturingStore struct {
	logged chan *storage.RequestLog
}

func newCapturingStore() *capturingStore {
	return &capturingStore{logged: make(chan *storage.RequestLog, 4)}
}

func (c *capturingStore) LogRequest(l *storage.RequestLog) error {
	c.logged <- l
	return nil
}

func (c *capturingStore) GetRequestLogs(storage.LogFilter) ([]*storage.RequestLog, error) {
	return nil, nil
}
func (c *capturingStore) DeleteRequestLogs(string) (int64, error)              { return 0, nil }
func (c *capturingStore) GetUsageStats(storage.StatsFilter) (*storage.UsageStats, error) {
	return &storage.UsageStats{}, nil
}
func (c *capturingStore) GetDailyUsage(string, string) ([]*storage.DailyUsage, error) {
	return nil, nil
}
func (c *capturingStore) UpdateDailyUsage(*storage.DailyUsage) error { return nil }
func (c *capturingStore) Close() error                               { return nil }

func (c *capturingStore) waitForLog(t *testing.T) *storage.RequestLog {
	t.Helper()
	select {
	case l := <-c.logged:
		return l
	case <-time.After(2 * time.Second):
		t.Fatal("no request log recorded")
		return nil
	}
}

func TestLoggedRequestIDMatchesHeader(t *testing.T) {
	t.Run("generation endpoint", func(t *testing.T) {
		store := newCapturingStore()
		prov := &fakeProvider{replyText: "ok"}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		h := New(prov, testPolicies(), store, nil, nil, logger, "whisper-large-v3")

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"prompt":"hi"}`))
		req.Header.Set(middleware.RequestIDHeader, "caller-id-42")
		w := httptest.NewRecorder()
		middleware.RequestID(http.HandlerFunc(h.Chat)).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d", w.Code)
		}
		entry := store.waitForLog(t)
		if entry.RequestID != "caller-id-42" {
			t.Errorf("stored request ID %q does not match header ID", entry.RequestID)
		}
	})

	t.Run("voice endpoint", func(t *testing.T) {
		store := newCapturingStore()
		prov := &fakeProvider{transcript: "hi"}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		h := New(prov, testPolicies(), store, nil, nil, logger, "whisper-large-v3")

		req := multipartAudioRequest(t, true, "")
		req.Header.Set(middleware.RequestIDHeader, "caller-id-43")
		w := httptest.NewRecorder()
		middleware.RequestID(http.HandlerFunc(h.Voice)).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d", w.Code)
		}
		entry := store.waitForLog(t)
		if entry.RequestID != "caller-id-43" {
			t.Errorf("stored request ID %q does not match header ID", entry.RequestID)
		}
	})

	t.Run("falls back to a generated ID without the middleware", func(t *testing.T) {
		store := newCapturingStore()
		prov := &fakeProvider{replyText: "ok"}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		h := New(prov, testPolicies(), store, nil, nil, logger, "whisper-large-v3")

		w := postJSON(t, h.Chat, `{"prompt":"hi"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d", w.Code)
		}
		if entry := store.waitForLog(t); entry.RequestID == "" {
			t.Error("expected a generated request ID")
		}
	})
}

func TestVoiceRejectsOversizedUpload(t *testing.T) {
	h := newTestHandlers(t, &fakeProvider{transcript: "hi"}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "huge.mp3")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte("a"), maxAudioBytes+1)); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/voice", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.Voice(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", w.Code)
	}
}

func TestVoiceRequiresFile(t *testing.T) {
	h := newTestHandlers(t, &fakeProvider{}, nil)

	w := httptest.NewRecorder()
	h.Voice(w, multipartAudioRequest(t, false, "whisper-large-v3"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", w.Code)
	}
}
