package study

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tutorgate/tutorgate/internal/config"
	"github.com/tutorgate/tutorgate/internal/provider"
	"github.com/tutorgate/tutorgate/internal/storage"
	"github.com/tutorgate/tutorgate/internal/transport/http/handler/shared"
	"github.com/tutorgate/tutorgate/internal/types"
)

// maxAudioBytes caps the whole upload body (32MB). Larger requests
// fail during multipart parsing instead of spooling to disk.
const maxAudioBytes = 32 << 20

// audioMemoryBytes is the in-memory threshold before parts spill to
// temp files.
const audioMemoryBytes = 10 << 20

// Voice handles POST /voice: multipart audio in, transcript out.
func (h *Handlers) Voice(w http.ResponseWriter, r *http.Request) {
	requestID := tracingID(r)
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)
	if err := r.ParseMultipartForm(audioMemoryBytes); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("failed to parse multipart form"))
		return
	}
	// Temp files backing the upload are removed whether the upstream
	// call succeeds or fails.
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("audio file is required"))
		return
	}
	defer file.Close()

	model := r.FormValue("model")
	if model == "" {
		model = h.WhisperModel
	}

	transcript, err := h.Provider.Transcribe(r.Context(), provider.TranscribeInput{
		File:     file,
		Filename: header.Filename,
		Model:    model,
	})
	if err != nil {
		status := h.writeProviderError(w, err)
		go h.logSimple(requestID, config.EndpointVoice, model, status, err.Error(), start)
		return
	}

	shared.WriteJSON(w, map[string]string{"transcript": transcript}, http.StatusOK)
	go h.logSimple(requestID, config.EndpointVoice, model, http.StatusOK, "", start)
}

// logSimple records a request with no token counts.
func (h *Handlers) logSimple(requestID, endpoint, model string, status int, errMsg string, start time.Time) {
	if h.Storage == nil {
		return
	}

	_ = h.Storage.LogRequest(&storage.RequestLog{
		ID:           uuid.New().String(),
		RequestID:    requestID,
		Endpoint:     endpoint,
		Model:        model,
		Provider:     h.Provider.Name(),
		StatusCode:   status,
		ErrorMessage: errMsg,
		DurationMs:   time.Since(start).Milliseconds(),
		CreatedAt:    time.Now(),
	})

	errorCount := 0
	if status >= 400 {
		errorCount = 1
	}
	_ = h.Storage.UpdateDailyUsage(&storage.DailyUsage{
		Date:         time.Now().Format("2006-01-02"),
		Endpoint:     endpoint,
		Model:        model,
		RequestCount: 1,
		ErrorCount:   errorCount,
	})
}
