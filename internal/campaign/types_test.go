package campaign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPacingDelay(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want time.Duration
	}{
		{"disabled", Request{DelayValue: 5, DelayUnit: "s"}, 0},
		{"zero value", Request{DelayEnable: true, DelayUnit: "s"}, 0},
		{"seconds", Request{DelayEnable: true, DelayValue: 5, DelayUnit: "s"}, 5 * time.Second},
		{"minutes", Request{DelayEnable: true, DelayValue: 2, DelayUnit: "m"}, 2 * time.Minute},
		{"hours", Request{DelayEnable: true, DelayValue: 1, DelayUnit: "h"}, time.Hour},
		{"days", Request{DelayEnable: true, DelayValue: 1, DelayUnit: "d"}, 24 * time.Hour},
		{"unknown unit", Request{DelayEnable: true, DelayValue: 5, DelayUnit: "w"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.PacingDelay())
		})
	}
}

func TestSplitStopKeywords(t *testing.T) {
	assert.Equal(t, []string{"stop", "berhenti"}, splitStopKeywords("Stop, BERHENTI"))
	assert.Equal(t, []string{"stop"}, splitStopKeywords(" stop ,, "))
	assert.Nil(t, splitStopKeywords(""))
}
