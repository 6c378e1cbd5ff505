package study

import (
	"net/http"

	"github.com/tutorgate/tutorgate/internal/config"
)

// Chat handles POST /chat. Free mode: the payload supplies its own
// messages, prompt, or text.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, config.EndpointChat, false, func(text string) any {
		return map[string]string{"answer": text}
	})
}
