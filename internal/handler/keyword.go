package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rayyanz/wa-blast-backend/internal/campaign"
	apperrors "github.com/rayyanz/wa-blast-backend/internal/errors"
	"github.com/rayyanz/wa-blast-backend/internal/keyword"
	"github.com/rayyanz/wa-blast-backend/internal/phone"
	"github.com/rayyanz/wa-blast-backend/internal/transport"
)

// Sender dispatches a message through a device session; satisfied by the
// session manager.
type Sender interface {
	Send(ctx context.Context, deviceID, recipient string, msg transport.Message) error
}

// KeywordHandler serves the auto-reply keyword CRUD plus check-message,
// which replies through the default device's session.
type KeywordHandler struct {
	Service *keyword.Service
	Sender  Sender
	Norm    phone.Normalizer
	Log     zerolog.Logger
}

func (h *KeywordHandler) ListKeywordsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": h.Service.List()})
}

func (h *KeywordHandler) AddKeywordHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Keyword  string `json:"keyword"`
		Response string `json:"response"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	kw, err := h.Service.Add(body.Keyword, body.Response)
	if err != nil {
		if apperrors.IsValidation(err) {
			writeError(w, http.StatusBadRequest, "Keyword and response required")
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": kw.ID})
}

func (h *KeywordHandler) DeleteKeywordHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid keyword id")
		return
	}
	h.Service.Delete(id)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// CheckMessageHandler matches an inbound text against the stored rules and
// sends the matched response back to the sender.
func (h *KeywordHandler) CheckMessageHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		From    string `json:"from"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	kw, ok := h.Service.Match(body.Message)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "msg": "no keyword matched"})
		return
	}

	to := h.Norm.Normalize(body.From)
	if err := h.Sender.Send(r.Context(), campaign.DefaultDevice, to, transport.Message{Text: kw.Response}); err != nil {
		h.Log.Error().Str("to", to).Err(err).Msg("auto-reply send failed")
		writeError(w, http.StatusInternalServerError, "failed to send reply")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "msg": "reply sent"})
}
