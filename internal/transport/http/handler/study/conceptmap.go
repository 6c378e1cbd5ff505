package study

import (
	"net/http"

	"github.com/tutorgate/tutorgate/internal/config"
)

// ConceptMap handles POST /concept-map. Structured mode.
func (h *Handlers) ConceptMap(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, config.EndpointConceptMap, true, nil)
}
