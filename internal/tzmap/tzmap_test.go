package tzmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIANAFromWindows(t *testing.T) {
	tests := []struct {
		name     string
		windows  string
		expected string
	}{
		{name: "pacific", windows: "Pacific Standard Time", expected: "America/Los_Angeles"},
		{name: "eastern", windows: "Eastern Standard Time", expected: "America/New_York"},
		{name: "utc", windows: "UTC", expected: "Etc/GMT"},
		{name: "central europe", windows: "W. Europe Standard Time", expected: "Europe/Berlin"},
		{name: "india", windows: "India Standard Time", expected: "Asia/Calcutta"},
		{name: "new zealand", windows: "New Zealand Standard Time", expected: "Pacific/Auckland"},
		{name: "unmapped name passes through", windows: "America/Chicago", expected: "America/Chicago"},
		{name: "unknown name passes through", windows: "Nonsense Standard Time", expected: "Nonsense Standard Time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IANAFromWindows(tt.windows))
		})
	}
}

func TestZoneFromWindows(t *testing.T) {
	zone, err := ZoneFromWindows("Pacific Standard Time")
	require.NoError(t, err)
	assert.Equal(t, "America/Los_Angeles", zone.String())

	// IANA names resolve directly thanks to the passthrough.
	zone, err = ZoneFromWindows("Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", zone.String())
}

func TestZoneFromWindows_Unknown(t *testing.T) {
	_, err := ZoneFromWindows("Nonsense Standard Time")
	assert.ErrorIs(t, err, ErrUnknownZone)
}
