// Package status derives the discrete display status shown next to each
// device in the list: a severity tier plus a label, and the independent
// alarm, ignition, and battery indicators.
package status

import (
	"time"

	"fleettrack/internal/format"
	"fleettrack/internal/model"
)

// Tier is the severity class used to color status indicators.
type Tier string

const (
	TierSuccess Tier = "success"
	TierWarning Tier = "warning"
	TierError   Tier = "error"
	TierNeutral Tier = "neutral"
)

// DerivedStatus is recomputed on every device or position update; it is never
// persisted.
type DerivedStatus struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
}

// Battery icon variants. Charge selects the charging variant of the tier's
// icon but never changes the tier itself.
const (
	BatteryFull         = "battery-full"
	BatteryChargingFull = "battery-charging-full"
	Battery60           = "battery-60"
	BatteryCharging60   = "battery-charging-60"
	Battery20           = "battery-20"
	BatteryCharging20   = "battery-charging-20"
)

// Indicator is one of the alarm/ignition/battery badges. The three are
// independent and may all render at once for the same device.
type Indicator struct {
	Kind  string `json:"kind"`
	Tier  Tier   `json:"tier"`
	Icon  string `json:"icon,omitempty"`
	Label string `json:"label"`
}

// Classifier turns connectivity state and the latest position into display
// status. The clock is injected so relative-time labels are testable.
type Classifier struct {
	translator format.Translator
	now        func() time.Time
}

func NewClassifier(t format.Translator, now func() time.Time) *Classifier {
	if now == nil {
		now = time.Now
	}
	return &Classifier{translator: t, now: now}
}

// Classify applies the ordered status rules: not-online wins first and maps to
// a neutral tier with a relative-time label when LastUpdate is known; an alarm
// on the current position wins next; otherwise the device is plainly online.
func (c *Classifier) Classify(device *model.Device, position *model.Position) DerivedStatus {
	if device == nil {
		return DerivedStatus{Tier: TierNeutral}
	}

	if device.Status != model.StatusOnline {
		label := format.Status(device.Status, c.translator)
		if !device.LastUpdate.IsZero() {
			label = format.RelativeTime(device.LastUpdate, c.now())
		}
		return DerivedStatus{Tier: tierForConnectivity(device.Status), Label: label}
	}

	if position.HasAttribute(model.AttrAlarm) {
		return DerivedStatus{
			Tier:  TierError,
			Label: format.Alarm(position.StringAttribute(model.AttrAlarm), c.translator),
		}
	}

	return DerivedStatus{Tier: TierSuccess, Label: format.Status(device.Status, c.translator)}
}

func tierForConnectivity(status string) Tier {
	switch status {
	case model.StatusOnline:
		return TierSuccess
	default:
		// offline and unknown both render neutral
		return TierNeutral
	}
}

// Indicators assembles the alarm, ignition, and battery badges for a
// position. Each badge is gated on its attribute key being present, not on
// the value being truthy.
func (c *Classifier) Indicators(position *model.Position) []Indicator {
	if position == nil {
		return nil
	}
	var out []Indicator

	if position.HasAttribute(model.AttrAlarm) {
		out = append(out, Indicator{
			Kind:  "alarm",
			Tier:  TierError,
			Label: format.Alarm(position.StringAttribute(model.AttrAlarm), c.translator),
		})
	}

	if position.HasAttribute(model.AttrIgnition) {
		ignition := position.BoolAttribute(model.AttrIgnition)
		tier := TierNeutral
		if ignition {
			tier = TierSuccess
		}
		out = append(out, Indicator{
			Kind:  "ignition",
			Tier:  tier,
			Label: format.Boolean(ignition, c.translator),
		})
	}

	if position.HasAttribute(model.AttrBatteryLevel) {
		level := position.FloatAttribute(model.AttrBatteryLevel)
		charge := position.BoolAttribute(model.AttrCharge)
		tier, icon := BatteryIndicator(level, charge)
		out = append(out, Indicator{
			Kind:  "battery",
			Tier:  tier,
			Icon:  icon,
			Label: format.Percentage(level),
		})
	}

	return out
}

// BatteryIndicator classifies a 0–100 battery level. Thresholds are strict:
// exactly 70 is warning, exactly 30 is error.
func BatteryIndicator(level float64, charge bool) (Tier, string) {
	switch {
	case level > 70:
		if charge {
			return TierSuccess, BatteryChargingFull
		}
		return TierSuccess, BatteryFull
	case level > 30:
		if charge {
			return TierWarning, BatteryCharging60
		}
		return TierWarning, Battery60
	default:
		if charge {
			return TierError, BatteryCharging20
		}
		return TierError, Battery20
	}
}
