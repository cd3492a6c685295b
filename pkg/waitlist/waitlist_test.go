package waitlist

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Location
	}{
		{"plain string", `"Lisbon, Portugal"`, "Lisbon, Portugal"},
		{"object with description", `{"placeId":"p-1","description":"Lisbon, Portugal"}`, "Lisbon, Portugal"},
		{"object without description", `{"placeId":"p-1"}`, "p-1"},
		{"empty object", `{}`, ""},
		{"empty string", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var loc Location
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &loc))
			assert.Equal(t, tt.want, loc)
		})
	}
}

func TestLocationUnmarshal_Invalid(t *testing.T) {
	var loc Location
	err := json.Unmarshal([]byte(`42`), &loc)
	assert.Error(t, err)
}

func TestSubmissionUnmarshal_StructuredLocation(t *testing.T) {
	raw := `{
		"fid": "12345",
		"username": "alice",
		"signature": "0xdeadbeef",
		"location": {"placeId": "p-9", "description": "Berlin, Germany"},
		"fullContext": {"client": {"platformType": "mobile"}}
	}`

	var sub Submission
	require.NoError(t, json.Unmarshal([]byte(raw), &sub))
	assert.Equal(t, Location("Berlin, Germany"), sub.Location)
	assert.JSONEq(t, `{"client":{"platformType":"mobile"}}`, string(sub.FullContext))
}
