// Package license manages license records: key generation, validation and
// deletion. Records live in the durable collection store.
package license

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	apperrors "github.com/rayyanz/wa-blast-backend/internal/errors"
	"github.com/rayyanz/wa-blast-backend/internal/model"
	"github.com/rayyanz/wa-blast-backend/internal/store"
)

const collection = "licenses"

type Service struct {
	store store.Store
	log   zerolog.Logger

	mu       sync.Mutex
	licenses []model.License
}

func NewService(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

func (s *Service) Load() error {
	var licenses []model.License
	if err := s.store.Load(collection, &licenses); err != nil {
		return err
	}
	s.mu.Lock()
	s.licenses = licenses
	s.mu.Unlock()
	return nil
}

func (s *Service) persistLocked() {
	snapshot := make([]model.License, len(s.licenses))
	copy(snapshot, s.licenses)
	if err := s.store.Save(collection, snapshot); err != nil {
		s.log.Error().Err(err).Msg("failed to persist licenses")
	}
}

// Check validates a key+email pair. isMaster is 1 for master licenses.
func (s *Service) Check(key, email string) (valid bool, isMaster int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.licenses {
		if l.LicenseKey == key && l.Email == email {
			return true, l.IsMaster
		}
	}
	return false, 0
}

// List returns every license in stored order.
func (s *Service) List() []model.License {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.License, len(s.licenses))
	copy(out, s.licenses)
	return out
}

// Add generates a fresh key for the email and persists it.
func (s *Service) Add(email string, isMaster int) (model.License, error) {
	if email == "" {
		return model.License{}, apperrors.NewValidation("email required")
	}
	if isMaster != 0 {
		isMaster = 1
	}
	key := generateKey()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.licenses {
		if l.LicenseKey == key {
			return model.License{}, apperrors.ErrDuplicateKey
		}
	}
	lic := model.License{LicenseKey: key, Email: email, IsMaster: isMaster}
	s.licenses = append(s.licenses, lic)
	s.persistLocked()
	s.log.Info().Str("key", lic.LicenseKey).Str("email", email).Msg("license added")
	return lic, nil
}

// Delete removes a license by key. Master licenses cannot be deleted.
func (s *Service) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.licenses {
		if l.LicenseKey != key {
			continue
		}
		if l.IsMaster != 0 {
			return apperrors.ErrMasterLicense
		}
		s.licenses = append(s.licenses[:i], s.licenses[i+1:]...)
		s.persistLocked()
		s.log.Info().Str("key", key).Msg("license deleted")
		return nil
	}
	return apperrors.ErrLicenseNotFound
}

const keyAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generateKey builds keys shaped like WBP-XXXXX-NNNNN-XN.
func generateKey() string {
	chunk := make([]byte, 5)
	for i := range chunk {
		chunk[i] = keyAlphabet[rand.Intn(len(keyAlphabet))]
	}
	num := 10000 + rand.Intn(90000)
	suffix := fmt.Sprintf("%c%d", 'A'+rune(rand.Intn(26)), rand.Intn(9))
	return fmt.Sprintf("WBP-%s-%d-%s", chunk, num, suffix)
}
