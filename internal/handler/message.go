package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rayyanz/wa-blast-backend/internal/campaign"
	apperrors "github.com/rayyanz/wa-blast-backend/internal/errors"
)

// MessageHandler serves the synchronous single-send path.
type MessageHandler struct {
	Engine *campaign.Engine
	Log    zerolog.Logger
}

func (h *MessageHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req campaign.SingleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.Engine.SendSingle(r.Context(), req); err != nil {
		if apperrors.IsValidation(err) {
			writeError(w, http.StatusBadRequest, "Missing data")
			return
		}
		h.Log.Error().Err(err).Msg("send-message failed")
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
