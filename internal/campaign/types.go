package campaign

import (
	"strings"
	"time"

	apperrors "github.com/rayyanz/wa-blast-backend/internal/errors"
	"github.com/rayyanz/wa-blast-backend/internal/model"
)

// FollowUpRule is one follow-up to enqueue after a successful send. Delay
// is an integer plus unit, one of s/m/h/d.
type FollowUpRule struct {
	Delay   string `json:"delay"`
	Message string `json:"message"`
}

// Request is one broadcast run.
type Request struct {
	Device         string            `json:"device"`
	Numbers        []model.Recipient `json:"numbers"`
	Message        string            `json:"message"`
	MediaURL       string            `json:"media_url"`
	SendMethod     string            `json:"send_method"` // caption | separate
	DelayEnable    bool              `json:"delay_enable"`
	DelayValue     int               `json:"delay_value"`
	DelayUnit      string            `json:"delay_unit"` // s | m | h | d
	EnableFollowup bool              `json:"enable_followup"`
	FollowUps      []FollowUpRule    `json:"follow_ups"`
	StopKeywords   string            `json:"stop_keywords"`
}

// Validate rejects a request before any side effect.
func (r *Request) Validate() error {
	if len(r.Numbers) == 0 || strings.TrimSpace(r.Message) == "" {
		return apperrors.NewValidation("invalid numbers or message")
	}
	return nil
}

// PacingDelay converts the delay fields into a duration; zero when pacing
// is disabled or the unit is unknown.
func (r *Request) PacingDelay() time.Duration {
	if !r.DelayEnable || r.DelayValue <= 0 {
		return 0
	}
	switch r.DelayUnit {
	case "s":
		return time.Duration(r.DelayValue) * time.Second
	case "m":
		return time.Duration(r.DelayValue) * time.Minute
	case "h":
		return time.Duration(r.DelayValue) * time.Hour
	case "d":
		return time.Duration(r.DelayValue) * 24 * time.Hour
	}
	return 0
}

// splitStopKeywords splits, trims and lowercases a comma-separated stop
// list. Stop keywords are lowercased once, at creation.
func splitStopKeywords(s string) []string {
	var out []string
	for _, kw := range strings.Split(s, ",") {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// Result summarizes one run.
type Result struct {
	Total   int `json:"total"`
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// SingleRequest is the single-send path: one recipient, optional
// follow-ups, no media.
type SingleRequest struct {
	Device         string         `json:"device"`
	Phone          string         `json:"phone"`
	Message        string         `json:"message"`
	EnableFollowup bool           `json:"enable_followup"`
	FollowUps      []FollowUpRule `json:"follow_ups"`
	StopKeywords   string         `json:"stop_keywords"`
}

func (r *SingleRequest) Validate() error {
	if strings.TrimSpace(r.Phone) == "" || strings.TrimSpace(r.Message) == "" {
		return apperrors.NewValidation("missing phone or message")
	}
	return nil
}
