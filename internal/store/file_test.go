package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayyanz/wa-blast-backend/internal/model"
)

func newFileStore(t *testing.T) Store {
	t.Helper()
	st, err := Open(Config{Driver: "file", DataDir: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	return st
}

func TestFileStoreRoundTrip(t *testing.T) {
	st := newFileStore(t)

	in := []model.FollowUp{
		{Device: "default", Phone: "62811", Message: "first", FireAt: 100, StopKeywords: []string{"stop"}},
		{Device: "default", Phone: "62822", Message: "second", FireAt: 200, StopKeywords: []string{"berhenti", "stop"}},
		{Device: "other", Phone: "62833", Message: "third", FireAt: 300},
	}
	require.NoError(t, st.Save("followups", in))

	var out []model.FollowUp
	require.NoError(t, st.Load("followups", &out))
	assert.Equal(t, in, out)
}

func TestFileStoreMissingCollection(t *testing.T) {
	st := newFileStore(t)

	out := []model.FollowUp{}
	require.NoError(t, st.Load("nope", &out))
	assert.Empty(t, out)
}

func TestFileStoreCorruptCollection(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(Config{Driver: "file", DataDir: dir}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "followups.json"), []byte("{not json"), 0o600))

	var out []model.FollowUp
	require.NoError(t, st.Load("followups", &out))
	assert.Empty(t, out)
}

func TestFileStoreOverwrite(t *testing.T) {
	st := newFileStore(t)

	require.NoError(t, st.Save("licenses", []model.License{{LicenseKey: "A", Email: "a@x"}}))
	require.NoError(t, st.Save("licenses", []model.License{{LicenseKey: "B", Email: "b@x"}}))

	var out []model.License
	require.NoError(t, st.Load("licenses", &out))
	require.Len(t, out, 1)
	assert.Equal(t, "B", out[0].LicenseKey)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "redis"}, zerolog.Nop())
	assert.Error(t, err)
}
