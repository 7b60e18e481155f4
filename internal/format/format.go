// Package format converts raw telemetry values into display strings. Every
// function is total over its documented domain: missing or out-of-range input
// produces an empty string or a clamped value, never a panic, because the
// output feeds visible UI directly.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"fleettrack/internal/model"
)

// Translator resolves a localization key to a display string. The second
// return is false when the key has no translation; callers decide the
// fallback. Localization content itself lives outside this service.
type Translator func(key string) (string, bool)

// Keyed is a Translator that returns every key as its own label. Used as the
// default when no localization source is wired.
func Keyed(key string) (string, bool) {
	return key, true
}

func translate(t Translator, key string) string {
	if t != nil {
		if label, ok := t(key); ok {
			return label
		}
	}
	return key
}

// Supported display units.
const (
	UnitKm  = "km"
	UnitMi  = "mi"
	UnitNmi = "nmi"

	UnitLtr    = "ltr"
	UnitImpGal = "impGal"
	UnitUsGal  = "usGal"

	UnitKmh = "kmh"
	UnitMph = "mph"
	UnitKn  = "kn"
)

const (
	metersPerMile         = 1609.34
	metersPerNauticalMile = 1852.0
	litersPerImpGallon    = 4.546
	litersPerUsGallon     = 3.785
	knotsToKmh            = 1.852
	knotsToMph            = 1.15078
)

// Distance renders meters in the requested unit. Converted values under 10
// keep two decimals, anything larger is rounded to a whole number; the rule is
// fixed so repeated renders of the same value never disagree.
func Distance(meters float64, unit string) string {
	if math.IsNaN(meters) || math.IsInf(meters, 0) {
		return ""
	}
	var value float64
	switch unit {
	case UnitMi:
		value = meters / metersPerMile
	case UnitNmi:
		value = meters / metersPerNauticalMile
	default:
		unit = UnitKm
		value = meters / 1000
	}
	return numberWithUnit(value, unit)
}

// Volume renders liters in the requested unit with the same precision rule as
// Distance.
func Volume(liters float64, unit string) string {
	if math.IsNaN(liters) || math.IsInf(liters, 0) {
		return ""
	}
	var value float64
	var label string
	switch unit {
	case UnitImpGal, UnitUsGal:
		if unit == UnitImpGal {
			value = liters / litersPerImpGallon
		} else {
			value = liters / litersPerUsGallon
		}
		label = "gal"
	default:
		label = "l"
		value = liters
	}
	return numberWithUnit(value, label)
}

// Speed renders knots in the requested unit with the same precision rule as
// Distance.
func Speed(knots float64, unit string) string {
	if math.IsNaN(knots) || math.IsInf(knots, 0) {
		return ""
	}
	var value float64
	switch unit {
	case UnitMph:
		value = knots * knotsToMph
	case UnitKn:
		value = knots
	default:
		unit = UnitKmh
		value = knots * knotsToKmh
	}
	return numberWithUnit(value, unit)
}

func numberWithUnit(value float64, unit string) string {
	if math.Abs(value) < 10 {
		return fmt.Sprintf("%.2f %s", value, unit)
	}
	return fmt.Sprintf("%.0f %s", value, unit)
}

// NumericHours renders a millisecond duration as hours and minutes:
// "1h 30m" for 5400000. The hour component is omitted when zero ("45m");
// minutes are zero-padded to two digits whenever hours are present. Negative
// input renders as "0m".
func NumericHours(millis int64) string {
	if millis < 0 {
		millis = 0
	}
	total := millis / int64(time.Minute/time.Millisecond)
	hours := total / 60
	minutes := total % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}

// Percentage renders a 0–100 value as "NN%". Out-of-range input is clamped
// rather than rejected.
func Percentage(value float64) string {
	if math.IsNaN(value) {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return strconv.FormatFloat(value, 'f', -1, 64) + "%"
}

// Boolean renders a localized yes/no.
func Boolean(value bool, t Translator) string {
	if value {
		return translate(t, "sharedYes")
	}
	return translate(t, "sharedNo")
}

// Status renders a localized connectivity label. Unrecognized statuses render
// as their raw value.
func Status(status string, t Translator) string {
	switch status {
	case model.StatusOnline:
		return translate(t, "deviceStatusOnline")
	case model.StatusOffline:
		return translate(t, "deviceStatusOffline")
	case model.StatusUnknown:
		return translate(t, "deviceStatusUnknown")
	default:
		return status
	}
}

// Alarm renders a localized alarm description, falling back to the raw code
// when no translation exists.
func Alarm(code string, t Translator) string {
	if code == "" {
		return ""
	}
	key := "alarm" + strings.ToUpper(code[:1]) + code[1:]
	if t != nil {
		if label, ok := t(key); ok {
			return label
		}
	}
	return code
}

// Event renders a localized event type label, falling back to the raw type.
func Event(eventType string, t Translator) string {
	if eventType == "" {
		return ""
	}
	key := "event" + strings.ToUpper(eventType[:1]) + eventType[1:]
	if t != nil {
		if label, ok := t(key); ok {
			return label
		}
	}
	return eventType
}

// Time precision levels. Formatting truncates, never rounds: seconds beyond
// the requested granularity are simply not shown.
const (
	PrecisionDate    = "date"
	PrecisionMinutes = "minutes"
	PrecisionSeconds = "seconds"
)

// Time renders a timestamp at the requested precision. The zero time renders
// as an empty string.
func Time(ts time.Time, precision string) string {
	if ts.IsZero() {
		return ""
	}
	switch precision {
	case PrecisionDate:
		return ts.Format("2006-01-02")
	case PrecisionSeconds:
		return ts.Format("2006-01-02 15:04:05")
	default:
		return ts.Format("2006-01-02 15:04")
	}
}

// RelativeTime renders how long ago ts was relative to now, in the coarsest
// sensible unit. Used for offline device labels.
func RelativeTime(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	d := now.Sub(ts)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return ago(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return ago(int(d.Hours()), "hour")
	default:
		return ago(int(d.Hours()/24), "day")
	}
}

func ago(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
