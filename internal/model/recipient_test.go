package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipientUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Recipient
	}{
		{"bare string", `"6281111111111"`, Recipient{Phone: "6281111111111"}},
		{"string with name", `"6281111111111:Alice"`, Recipient{Phone: "6281111111111", Name: "Alice"}},
		{"string with padded name", `"6281111111111: Alice "`, Recipient{Phone: "6281111111111", Name: "Alice"}},
		{"object", `{"phone":"6281111111111","name":"Alice"}`, Recipient{Phone: "6281111111111", Name: "Alice"}},
		{"object without name", `{"phone":"6281111111111"}`, Recipient{Phone: "6281111111111"}},
		{"invalid text kept raw", `"invalid!!"`, Recipient{Phone: "invalid!!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Recipient
			require.NoError(t, json.Unmarshal([]byte(tt.in), &r))
			assert.Equal(t, tt.want, r)
		})
	}
}

func TestRecipientUnmarshalMixedList(t *testing.T) {
	var list []Recipient
	raw := `["62811:Alice", {"phone":"62822","name":"Bob"}, "62833"]`
	require.NoError(t, json.Unmarshal([]byte(raw), &list))
	require.Len(t, list, 3)
	assert.Equal(t, "Alice", list[0].Name)
	assert.Equal(t, "62822", list[1].Phone)
	assert.Equal(t, "", list[2].Name)
}
