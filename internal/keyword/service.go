// Package keyword stores auto-reply rules and matches them against
// inbound texts.
package keyword

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/rayyanz/wa-blast-backend/internal/errors"
	"github.com/rayyanz/wa-blast-backend/internal/model"
	"github.com/rayyanz/wa-blast-backend/internal/store"
)

const collection = "sar_keywords"

type Service struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time

	mu       sync.Mutex
	keywords []model.Keyword
}

func NewService(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log, now: time.Now}
}

func (s *Service) Load() error {
	var keywords []model.Keyword
	if err := s.store.Load(collection, &keywords); err != nil {
		return err
	}
	s.mu.Lock()
	s.keywords = keywords
	s.mu.Unlock()
	return nil
}

func (s *Service) persistLocked() {
	snapshot := make([]model.Keyword, len(s.keywords))
	copy(snapshot, s.keywords)
	if err := s.store.Save(collection, snapshot); err != nil {
		s.log.Error().Err(err).Msg("failed to persist keywords")
	}
}

// List returns every rule in stored order.
func (s *Service) List() []model.Keyword {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Keyword, len(s.keywords))
	copy(out, s.keywords)
	return out
}

// Add stores a new rule, keyed by creation time.
func (s *Service) Add(keyword, response string) (model.Keyword, error) {
	if keyword == "" || response == "" {
		return model.Keyword{}, apperrors.NewValidation("keyword and response required")
	}
	kw := model.Keyword{ID: s.now().UnixMilli(), Keyword: keyword, Response: response}

	s.mu.Lock()
	s.keywords = append(s.keywords, kw)
	s.persistLocked()
	s.mu.Unlock()
	return kw, nil
}

// Delete removes a rule by id. Unknown ids are a no-op.
func (s *Service) Delete(id int64) {
	s.mu.Lock()
	kept := s.keywords[:0]
	for _, kw := range s.keywords {
		if kw.ID != id {
			kept = append(kept, kw)
		}
	}
	s.keywords = kept
	s.persistLocked()
	s.mu.Unlock()
}

// Match returns the first rule whose keyword is contained in the text,
// case-insensitively.
func (s *Service) Match(text string) (model.Keyword, bool) {
	lower := strings.ToLower(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kw := range s.keywords {
		if strings.Contains(lower, strings.ToLower(kw.Keyword)) {
			return kw, true
		}
	}
	return model.Keyword{}, false
}
