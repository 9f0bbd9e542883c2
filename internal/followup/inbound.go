package followup

import (
	"context"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/rayyanz/wa-blast-backend/internal/phone"
)

// LeadNotifier pushes a cancelled conversation to an external lead
// tracker. Failures are logged only; they never block cancellation.
type LeadNotifier interface {
	Notify(ctx context.Context, phone string) error
}

// InboundHandler reacts to inbound messages: a reply containing one of a
// pending follow-up's stop keywords cancels every pending follow-up for
// that sender.
type InboundHandler struct {
	queue *Queue
	norm  phone.Normalizer
	leads LeadNotifier
	log   zerolog.Logger
}

func NewInboundHandler(queue *Queue, norm phone.Normalizer, leads LeadNotifier, log zerolog.Logger) *InboundHandler {
	return &InboundHandler{queue: queue, norm: norm, leads: leads, log: log}
}

// HandleMessage processes one inbound message event. Group messages are
// ignored entirely.
func (h *InboundHandler) HandleMessage(deviceID, from, body string, isGroup bool) {
	if isGroup {
		return
	}
	sender := h.norm.Normalize(from)
	if sender == "" {
		return
	}

	pending := h.queue.PendingFor(sender)
	if len(pending) == 0 {
		return
	}

	matched := false
	for _, e := range pending {
		if matchesStopKeyword(e.StopKeywords, body) {
			matched = true
			break
		}
	}
	if !matched {
		return
	}

	h.log.Info().Str("from", sender).Msg("stop keyword detected")

	if h.leads != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := h.leads.Notify(ctx, sender); err != nil {
			h.log.Error().Str("phone", sender).Err(err).Msg("lead update failed")
		}
		cancel()
	}

	removed := h.queue.CancelFor(sender)
	h.log.Info().Str("from", sender).Int("cancelled", removed).Msg("follow-ups cancelled")
}

// matchesStopKeyword reports whether the text contains any keyword as a
// whole word, case-insensitively.
func matchesStopKeyword(keywords []string, text string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		if err != nil {
			continue
		}
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
