package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rayyanz/wa-blast-backend/internal/campaign"
	"github.com/rayyanz/wa-blast-backend/internal/queue"
)

// BroadcastTopic is the job queue topic carrying campaign requests.
const BroadcastTopic = "broadcast_jobs"

// BroadcastHandler validates campaign requests and enqueues them; the
// campaign runner consumes the topic and performs the sends.
type BroadcastHandler struct {
	Jobs queue.Queue
	Log  zerolog.Logger
}

func (h *BroadcastHandler) BroadcastHandler(w http.ResponseWriter, r *http.Request) {
	var req campaign.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid numbers or message")
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	jobID := uuid.NewString()
	if err := h.Jobs.Publish(BroadcastTopic, payload); err != nil {
		h.Log.Error().Str("job", jobID).Err(err).Msg("failed to enqueue broadcast")
		writeError(w, http.StatusInternalServerError, "Failed to queue broadcast")
		return
	}

	h.Log.Info().Str("job", jobID).Int("recipients", len(req.Numbers)).Msg("broadcast queued")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"job_id":  jobID,
		"queued":  len(req.Numbers),
	})
}
