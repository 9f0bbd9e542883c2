package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	apperrors "github.com/rayyanz/wa-blast-backend/internal/errors"
	"github.com/rayyanz/wa-blast-backend/internal/license"
)

type LicenseHandler struct {
	Service *license.Service
	Log     zerolog.Logger
}

func (h *LicenseHandler) CheckLicenseHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LicenseKey string `json:"license_key"`
		Email      string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	valid, isMaster := h.Service.Check(body.LicenseKey, body.Email)
	if !valid {
		writeJSON(w, http.StatusOK, map[string]any{"status": "invalid"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "valid", "is_master": isMaster})
}

func (h *LicenseHandler) ListLicensesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": h.Service.List()})
}

func (h *LicenseHandler) AddLicenseHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		IsMaster int    `json:"is_master"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	lic, err := h.Service.Add(body.Email, body.IsMaster)
	if err != nil {
		switch {
		case apperrors.IsValidation(err):
			writeError(w, http.StatusBadRequest, "Email required")
		case errors.Is(err, apperrors.ErrDuplicateKey):
			writeError(w, http.StatusConflict, "Dup key")
		default:
			h.Log.Error().Err(err).Msg("add license failed")
			writeError(w, http.StatusInternalServerError, "Internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "license": lic})
}

func (h *LicenseHandler) DeleteLicenseHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LicenseKey string `json:"license_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.Service.Delete(body.LicenseKey); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrLicenseNotFound):
			writeError(w, http.StatusNotFound, "Not found")
		case errors.Is(err, apperrors.ErrMasterLicense):
			writeError(w, http.StatusForbidden, "Cannot delete master")
		default:
			h.Log.Error().Err(err).Msg("delete license failed")
			writeError(w, http.StatusInternalServerError, "Internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
