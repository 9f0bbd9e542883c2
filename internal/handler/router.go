package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps bundles every handler mounted on the router.
type Deps struct {
	Device    *DeviceHandler
	Message   *MessageHandler
	Broadcast *BroadcastHandler
	License   *LicenseHandler
	Keyword   *KeywordHandler
}

// NewRouter mounts the full API surface.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Devices
	r.Get("/qr/{id}", d.Device.GetQRHandler)
	r.Get("/status/{id}", d.Device.GetStatusHandler)
	r.Get("/devices", d.Device.ListDevicesHandler)

	// Sending
	r.Post("/send-message", d.Message.SendMessageHandler)
	r.Post("/api/broadcast", d.Broadcast.BroadcastHandler)

	// Licenses
	r.Post("/api/check-license", d.License.CheckLicenseHandler)
	r.Get("/api/all-licenses", d.License.ListLicensesHandler)
	r.Post("/api/add-license", d.License.AddLicenseHandler)
	r.Post("/api/delete-license", d.License.DeleteLicenseHandler)

	// Keyword auto-replies
	r.Get("/api/sar/keywords", d.Keyword.ListKeywordsHandler)
	r.Post("/api/sar/keywords", d.Keyword.AddKeywordHandler)
	r.Delete("/api/sar/keywords/{id}", d.Keyword.DeleteKeywordHandler)
	r.Post("/api/sar/check-message", d.Keyword.CheckMessageHandler)

	return r
}
