package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rayyanz/wa-blast-backend/internal/qr"
	"github.com/rayyanz/wa-blast-backend/internal/session"
)

// DeviceHandler serves QR challenges and session status.
type DeviceHandler struct {
	Sessions *session.Manager
	QRSize   int
	Log      zerolog.Logger
}

// GetQRHandler renders the pending QR challenge as a PNG. While no
// challenge is available it triggers session initialization as a side
// effect and returns 404, so a later poll succeeds.
func (h *DeviceHandler) GetQRHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	challenge, ok := h.Sessions.Challenge(id)
	if !ok {
		h.Sessions.Ensure(id)
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "QR not available yet, retry shortly."})
		return
	}

	png, err := qr.PNG(challenge, h.QRSize)
	if err != nil {
		h.Log.Error().Str("device", id).Err(err).Msg("qr render failed")
		http.Error(w, "failed to generate QR", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// GetStatusHandler reports the device state and, once connected, its push
// name. The session is initialized on first reference.
func (h *DeviceHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.Sessions.State(id) == session.StateUnknown {
		h.Sessions.Ensure(id)
	}
	resp := map[string]any{"status": string(h.Sessions.State(id))}
	if label := h.Sessions.Label(id); label != "" {
		resp["name"] = label
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListDevicesHandler returns every known device with its state.
func (h *DeviceHandler) ListDevicesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Sessions.List())
}
