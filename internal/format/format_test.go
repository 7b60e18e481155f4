package format

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name   string
		meters float64
		unit   string
		want   string
	}{
		{"small value keeps decimals", 5300, UnitKm, "5.30 km"},
		{"large value rounds whole", 153000, UnitKm, "153 km"},
		{"miles", 1609.34, UnitMi, "1.00 mi"},
		{"nautical miles", 1852, UnitNmi, "1.00 nmi"},
		{"unknown unit falls back to km", 1000, "furlong", "1.00 km"},
		{"zero", 0, UnitKm, "0.00 km"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.meters, tt.unit))
		})
	}
}

func TestDistance_InvalidInput(t *testing.T) {
	assert.Empty(t, Distance(math.NaN(), UnitKm))
	assert.Empty(t, Distance(math.Inf(1), UnitMi))
}

func TestVolume(t *testing.T) {
	assert.Equal(t, "5.00 l", Volume(5, UnitLtr))
	assert.Equal(t, "1.00 gal", Volume(4.546, UnitImpGal))
	assert.Equal(t, "1.00 gal", Volume(3.785, UnitUsGal))
}

func TestSpeed(t *testing.T) {
	assert.Equal(t, "1.85 kmh", Speed(1, UnitKmh))
	assert.Equal(t, "1.15 mph", Speed(1, UnitMph))
	assert.Equal(t, "1.00 kn", Speed(1, UnitKn))
}

func TestNumericHours(t *testing.T) {
	tests := []struct {
		millis int64
		want   string
	}{
		{5400000, "1h 30m"},
		{45 * 60 * 1000, "45m"},
		{0, "0m"},
		{2*3600*1000 + 5*60*1000, "2h 05m"},
		{-100, "0m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NumericHours(tt.millis))
	}
}

// The rendered duration must parse back to the same hour/minute pair.
func TestNumericHours_RoundTrip(t *testing.T) {
	rendered := NumericHours(5400000)
	var hours, minutes int
	_, err := fmt.Sscanf(rendered, "%dh %dm", &hours, &minutes)
	require.NoError(t, err)
	assert.Equal(t, 1, hours)
	assert.Equal(t, 30, minutes)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "85%", Percentage(85))
	assert.Equal(t, "0%", Percentage(-5))
	assert.Equal(t, "100%", Percentage(120))
	assert.Equal(t, "12.5%", Percentage(12.5))
	assert.Empty(t, Percentage(math.NaN()))
}

func TestBoolean(t *testing.T) {
	assert.Equal(t, "sharedYes", Boolean(true, Keyed))
	assert.Equal(t, "sharedNo", Boolean(false, Keyed))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "deviceStatusOnline", Status("online", Keyed))
	assert.Equal(t, "deviceStatusOffline", Status("offline", Keyed))
	assert.Equal(t, "deviceStatusUnknown", Status("unknown", Keyed))
	assert.Equal(t, "rebooting", Status("rebooting", Keyed))
}

func TestAlarm(t *testing.T) {
	translations := map[string]string{"alarmSos": "SOS"}
	lookup := func(key string) (string, bool) {
		v, ok := translations[key]
		return v, ok
	}

	assert.Equal(t, "SOS", Alarm("sos", lookup))
	// unrecognized codes fall back to the raw code
	assert.Equal(t, "tamper", Alarm("tamper", lookup))
	assert.Empty(t, Alarm("", lookup))
}

func TestTime(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 9, 26, 999_000_000, time.UTC)

	assert.Equal(t, "2026-03-14", Time(ts, PrecisionDate))
	assert.Equal(t, "2026-03-14 15:09", Time(ts, PrecisionMinutes))
	assert.Equal(t, "2026-03-14 15:09:26", Time(ts, PrecisionSeconds))
	assert.Empty(t, Time(time.Time{}, PrecisionSeconds))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", RelativeTime(now.Add(-30*time.Second), now))
	assert.Equal(t, "1 minute ago", RelativeTime(now.Add(-90*time.Second), now))
	assert.Equal(t, "5 minutes ago", RelativeTime(now.Add(-5*time.Minute), now))
	assert.Equal(t, "1 hour ago", RelativeTime(now.Add(-time.Hour), now))
	assert.Equal(t, "3 hours ago", RelativeTime(now.Add(-3*time.Hour), now))
	assert.Equal(t, "1 day ago", RelativeTime(now.Add(-25*time.Hour), now))
	assert.Equal(t, "2 days ago", RelativeTime(now.Add(-49*time.Hour), now))
}
