package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tutorgate/tutorgate/internal/auth"
	"github.com/tutorgate/tutorgate/internal/config"
	"github.com/tutorgate/tutorgate/internal/prompt"
	"github.com/tutorgate/tutorgate/internal/provider"
	"github.com/tutorgate/tutorgate/internal/ratelimit"
	"github.com/tutorgate/tutorgate/internal/transport/http/handler"
	"github.com/tutorgate/tutorgate/internal/transport/http/handler/admin"
	"github.com/tutorgate/tutorgate/internal/transport/http/handler/infra"
	"github.com/tutorgate/tutorgate/internal/transport/http/handler/study"
	"github.com/tutorgate/tutorgate/internal/types"
)

type staticProvider struct{ reply string }

func (p *staticProvider) Name() string { return "static" }

func (p *staticProvider) Complete(context.Context, *types.GenerationRequest) (*types.ChatCompletionResponse, error) {
	return &types.ChatCompletionResponse{
		Choices: []types.Choice{{Message: &types.ChatTurn{Role: types.RoleAssistant, Content: p.reply}}},
	}, nil
}

func (p *staticProvider) Transcribe(context.Context, provider.TranscribeInput) (string, error) {
	return p.reply, nil
}

func newTestRouter(t *testing.T, opts *RouterOptions) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	policies := map[string]prompt.Policy{
		config.EndpointChat: {Model: "m", MaxTokens: 800, Temperature: 0.7},
	}
	repo := handler.NewRepo(
		study.New(&staticProvider{reply: "hi"}, policies, nil, nil, nil, logger, "whisper-large-v3"),
		infra.New("test"),
		admin.New(nil),
	)
	if opts == nil {
		opts = &RouterOptions{Logger: logger}
	}
	return NewRouter(repo, opts)
}

func TestRouterPublicRoutes(t *testing.T) {
	verifier, err := auth.NewVerifier("secret", "")
	if err != nil {
		t.Fatalf("create verifier: %v", err)
	}
	router := newTestRouter(t, &RouterOptions{Verifier: verifier})

	t.Run("health is open", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d", w.Code)
		}
		var resp map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp["ok"] != true {
			t.Errorf("body: %s", w.Body.String())
		}
	})

	t.Run("root reports service info", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d", w.Code)
		}
		var resp map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp["service"] != "tutorgate" || resp["version"] != "test" {
			t.Errorf("body: %s", w.Body.String())
		}
	})
}

func TestRouterGuardsGenerationRoutes(t *testing.T) {
	verifier, err := auth.NewVerifier("secret", "")
	if err != nil {
		t.Fatalf("create verifier: %v", err)
	}
	router := newTestRouter(t, &RouterOptions{Verifier: verifier})

	t.Run("missing token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"prompt":"hi"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status: got %d", w.Code)
		}
	})

	t.Run("valid token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"prompt":"hi"}`))
		req.Header.Set("Authorization", "Bearer secret")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("admin routes need the secret too", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/usage", nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status: got %d", w.Code)
		}
	})
}

func TestRouterNoSecretConfigured(t *testing.T) {
	router := newTestRouter(t, &RouterOptions{})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"prompt":"hi"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("open deployment must accept: got %d", w.Code)
	}
}

func TestRouterMethodMismatch(t *testing.T) {
	router := newTestRouter(t, &RouterOptions{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status: got %d", w.Code)
	}
}

func TestRouterRateLimit(t *testing.T) {
	router := newTestRouter(t, &RouterOptions{Limiter: ratelimit.New(1)})

	makeReq := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"prompt":"hi"}`))
		req.RemoteAddr = "10.0.0.9:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := makeReq(); w.Code != http.StatusOK {
		t.Fatalf("first request: got %d", w.Code)
	}
	if w := makeReq(); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d", w.Code)
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter(t, &RouterOptions{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID")
	}
}
