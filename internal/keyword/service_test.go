package keyword

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rayyanz/wa-blast-backend/internal/errors"
	"github.com/rayyanz/wa-blast-backend/internal/store"
)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st, err := store.Open(store.Config{Driver: "file", DataDir: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	return NewService(st, zerolog.Nop()), st
}

func TestAddAssignsTimestampID(t *testing.T) {
	s, _ := newTestService(t)
	at := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return at }

	kw, err := s.Add("harga", "Harga mulai dari 100rb")
	require.NoError(t, err)
	assert.Equal(t, at.UnixMilli(), kw.ID)

	_, err = s.Add("", "reply")
	assert.True(t, apperrors.IsValidation(err))
	_, err = s.Add("harga", "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestMatchCaseInsensitiveContains(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.Add("Harga", "price info")
	require.NoError(t, err)
	_, err = s.Add("alamat", "address info")
	require.NoError(t, err)

	got, ok := s.Match("berapa HARGA nya kak?")
	require.True(t, ok)
	assert.Equal(t, "price info", got.Response)

	// First stored rule wins when several match.
	got, ok = s.Match("harga dan alamat")
	require.True(t, ok)
	assert.Equal(t, "price info", got.Response)

	_, ok = s.Match("halo")
	assert.False(t, ok)
}

func TestDeleteByID(t *testing.T) {
	s, _ := newTestService(t)
	kw, err := s.Add("harga", "price info")
	require.NoError(t, err)

	s.Delete(kw.ID)
	assert.Empty(t, s.List())

	// Unknown ids are a no-op.
	s.Delete(999)
}

func TestPersistenceRoundTrip(t *testing.T) {
	s, st := newTestService(t)
	_, err := s.Add("harga", "price info")
	require.NoError(t, err)

	s2 := NewService(st, zerolog.Nop())
	require.NoError(t, s2.Load())
	assert.Equal(t, s.List(), s2.List())
}
