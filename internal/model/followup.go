package model

// FollowUp is one scheduled follow-up message. The phone is stored in
// canonical form, the message is the raw template (spintax is expanded at
// fire time) and FireAt is an absolute unix-milli timestamp that never
// changes after creation.
type FollowUp struct {
	Device       string   `json:"device"`
	Phone        string   `json:"phone"`
	Message      string   `json:"message"`
	FireAt       int64    `json:"time"`
	StopKeywords []string `json:"stop_keywords"`
}
