package status

import (
	"testing"
	"time"

	"fleettrack/internal/format"
	"fleettrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
}

func newTestClassifier() *Classifier {
	return NewClassifier(format.Keyed, fixedClock)
}

func TestClassify_OfflineWithoutPosition(t *testing.T) {
	c := newTestClassifier()
	device := &model.Device{ID: 1, Status: model.StatusOffline}

	derived := c.Classify(device, nil)

	assert.Equal(t, TierNeutral, derived.Tier)
	assert.Equal(t, "deviceStatusOffline", derived.Label)
}

func TestClassify_OfflineWithLastUpdate(t *testing.T) {
	c := newTestClassifier()
	device := &model.Device{
		ID:         1,
		Status:     model.StatusOffline,
		LastUpdate: fixedClock().Add(-2 * time.Hour),
	}

	derived := c.Classify(device, nil)

	assert.Equal(t, TierNeutral, derived.Tier)
	assert.Equal(t, "2 hours ago", derived.Label)
}

func TestClassify_UnknownIsNeutral(t *testing.T) {
	c := newTestClassifier()
	derived := c.Classify(&model.Device{ID: 1, Status: model.StatusUnknown}, nil)
	assert.Equal(t, TierNeutral, derived.Tier)
}

func TestClassify_OnlineWithAlarm(t *testing.T) {
	c := newTestClassifier()
	device := &model.Device{ID: 1, Status: model.StatusOnline}
	position := &model.Position{
		DeviceID:   1,
		Attributes: map[string]any{"alarm": "sos"},
	}

	derived := c.Classify(device, position)

	assert.Equal(t, TierError, derived.Tier)
	assert.Equal(t, "alarmSos", derived.Label)
}

func TestClassify_OnlineClean(t *testing.T) {
	c := newTestClassifier()
	derived := c.Classify(&model.Device{ID: 1, Status: model.StatusOnline}, nil)

	assert.Equal(t, TierSuccess, derived.Tier)
	assert.Equal(t, "deviceStatusOnline", derived.Label)
}

func TestBatteryIndicator_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		level    float64
		charge   bool
		wantTier Tier
		wantIcon string
	}{
		{"full", 85, false, TierSuccess, BatteryFull},
		{"full charging", 85, true, TierSuccess, BatteryChargingFull},
		{"mid", 50, false, TierWarning, Battery60},
		{"mid charging", 50, true, TierWarning, BatteryCharging60},
		{"low", 20, false, TierError, Battery20},
		{"low charging", 20, true, TierError, BatteryCharging20},
		// boundaries are strict
		{"exactly 70 is warning", 70, false, TierWarning, Battery60},
		{"exactly 30 is error", 30, false, TierError, Battery20},
		{"just above 70", 70.1, false, TierSuccess, BatteryFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, icon := BatteryIndicator(tt.level, tt.charge)
			assert.Equal(t, tt.wantTier, tier)
			assert.Equal(t, tt.wantIcon, icon)
		})
	}
}

func TestIndicators_AllThreeIndependent(t *testing.T) {
	c := newTestClassifier()
	position := &model.Position{
		DeviceID: 1,
		Attributes: map[string]any{
			"alarm":        "powerCut",
			"ignition":     true,
			"batteryLevel": 85,
			"charge":       true,
		},
	}

	indicators := c.Indicators(position)
	require.Len(t, indicators, 3)

	assert.Equal(t, "alarm", indicators[0].Kind)
	assert.Equal(t, TierError, indicators[0].Tier)

	assert.Equal(t, "ignition", indicators[1].Kind)
	assert.Equal(t, TierSuccess, indicators[1].Tier)

	assert.Equal(t, "battery", indicators[2].Kind)
	assert.Equal(t, TierSuccess, indicators[2].Tier)
	assert.Equal(t, BatteryChargingFull, indicators[2].Icon)
	assert.Equal(t, "85%", indicators[2].Label)
}

func TestIndicators_IgnitionGatedOnPresence(t *testing.T) {
	c := newTestClassifier()

	// ignition false still renders, as neutral
	withFalse := c.Indicators(&model.Position{
		DeviceID:   1,
		Attributes: map[string]any{"ignition": false},
	})
	require.Len(t, withFalse, 1)
	assert.Equal(t, "ignition", withFalse[0].Kind)
	assert.Equal(t, TierNeutral, withFalse[0].Tier)

	// absent key renders nothing
	without := c.Indicators(&model.Position{DeviceID: 1, Attributes: map[string]any{}})
	assert.Empty(t, without)
}

func TestIndicators_NilPosition(t *testing.T) {
	c := newTestClassifier()
	assert.Nil(t, c.Indicators(nil))
}
