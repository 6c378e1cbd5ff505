package study

import (
	"net/http"

	"github.com/tutorgate/tutorgate/internal/config"
)

// Summarize handles POST /summarize.
func (h *Handlers) Summarize(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, config.EndpointSummarize, false, func(text string) any {
		return map[string]string{"summary": text}
	})
}

// VideoExplainer handles POST /video-explainer.
func (h *Handlers) VideoExplainer(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, config.EndpointVideo, false, func(text string) any {
		return map[string]string{"script": text}
	})
}
