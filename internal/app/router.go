package app

import (
	"log/slog"
	"net/http"

	"github.com/tutorgate/tutorgate/internal/auth"
	"github.com/tutorgate/tutorgate/internal/ratelimit"
	"github.com/tutorgate/tutorgate/internal/transport/http/handler"
	"github.com/tutorgate/tutorgate/internal/transport/http/middleware"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	Logger   *slog.Logger
	Verifier *auth.Verifier
	Limiter  *ratelimit.Limiter
}

// NewRouter creates and configures the HTTP router with all application
// routes. Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mux := http.NewServeMux()

	// Public routes (no auth)
	mux.HandleFunc("GET /health", repo.Infra.Health)
	mux.HandleFunc("GET /", repo.Infra.Root)

	secret := middleware.SharedSecret(opts.Verifier)
	limited := ratelimit.Middleware(opts.Limiter)

	// Generation routes (shared secret + rate limit)
	guard := func(h http.HandlerFunc) http.Handler {
		return secret(limited(h))
	}
	mux.Handle("POST /chat", guard(repo.Study.Chat))
	mux.Handle("POST /mcq", guard(repo.Study.MCQ))
	mux.Handle("POST /summarize", guard(repo.Study.Summarize))
	mux.Handle("POST /video-explainer", guard(repo.Study.VideoExplainer))
	mux.Handle("POST /concept-map", guard(repo.Study.ConceptMap))
	mux.Handle("POST /voice", guard(repo.Study.Voice))

	// Admin routes (shared secret only)
	mux.Handle("GET /api/admin/usage", secret(http.HandlerFunc(repo.Admin.GetUsageStats)))
	mux.Handle("GET /api/admin/usage/daily", secret(http.HandlerFunc(repo.Admin.GetDailyUsage)))
	mux.Handle("GET /api/admin/logs", secret(http.HandlerFunc(repo.Admin.GetRequestLogs)))
	mux.Handle("DELETE /api/admin/logs", secret(http.HandlerFunc(repo.Admin.DeleteRequestLogs)))

	// Apply middleware chain (order: outer to inner)
	var h http.Handler = mux

	// Request logging (if logger provided)
	if opts.Logger != nil {
		h = middleware.RequestLogger(opts.Logger)(h)
	}

	// Request ID (always applied)
	h = middleware.RequestID(h)

	// CORS (always applied for browser clients)
	h = middleware.CORS(h)

	return h
}
