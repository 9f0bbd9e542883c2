package model

type License struct {
	LicenseKey string `json:"license_key"`
	Email      string `json:"email"`
	IsMaster   int    `json:"is_master"`
}
