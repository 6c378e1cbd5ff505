package study

import (
	"net/http"

	"github.com/tutorgate/tutorgate/internal/config"
)

// MCQ handles POST /mcq. Structured mode: a parseable upstream reply is
// returned as the JSON array itself, otherwise {"raw": text}.
func (h *Handlers) MCQ(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, config.EndpointMCQ, true, nil)
}
