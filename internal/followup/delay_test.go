package followup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelay(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"10s", 10 * time.Second},
		{"2m", 2 * time.Minute},
		{"1h", time.Hour},
		{"3d", 72 * time.Hour},
	}
	for _, tt := range tests {
		got, err := ParseDelay(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseDelayInvalid(t *testing.T) {
	for _, in := range []string{"", "10", "s", "10x", "1.5h", "-2s", "10 s"} {
		_, err := ParseDelay(in)
		assert.Error(t, err, "input %q", in)
	}
}
