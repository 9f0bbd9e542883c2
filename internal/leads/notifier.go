// Package leads pushes conversation updates to an external lead-tracking
// endpoint. All calls are best effort.
package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Notifier posts {phone, moveTo} updates. A zero URL disables it.
type Notifier struct {
	URL    string
	MoveTo string
	client *http.Client
	log    zerolog.Logger
}

func NewNotifier(url string, log zerolog.Logger) *Notifier {
	return &Notifier{
		URL:    url,
		MoveTo: "Follow up",
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

type payload struct {
	Phone  string `json:"phone"`
	MoveTo string `json:"moveTo"`
}

// Notify posts one update. Any failure is returned for the caller to log;
// nothing retries.
func (n *Notifier) Notify(ctx context.Context, phone string) error {
	if n == nil || n.URL == "" {
		return nil
	}
	body, err := json.Marshal(payload{Phone: phone, MoveTo: n.MoveTo})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("lead endpoint returned %s", resp.Status)
	}
	n.log.Info().Str("phone", phone).Msg("lead moved to follow up")
	return nil
}
