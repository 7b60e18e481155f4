package report

import (
	"fleettrack/internal/config"
	"fleettrack/internal/format"
	"fleettrack/internal/prefs"
	"fleettrack/internal/registry"
)

// Display preference attribute names.
const (
	PrefDistanceUnit    = "distanceUnit"
	PrefVolumeUnit      = "volumeUnit"
	PrefSpeedUnit       = "speedUnit"
	PrefDevicePrimary   = "devicePrimary"
	PrefDeviceSecondary = "deviceSecondary"
)

// StopDisplayRow is a fully formatted stop table row. Latitude/Longitude are
// kept raw so a focused row can feed the map overlay.
type StopDisplayRow struct {
	PositionID  int64   `json:"positionId"`
	DeviceID    int64   `json:"deviceId"`
	DeviceName  string  `json:"deviceName"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Duration    string  `json:"duration"`
	Address     string  `json:"address"`
	EngineHours string  `json:"engineHours"`
	SpentFuel   string  `json:"spentFuel"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// SummaryDisplayRow is a fully formatted summary table row.
type SummaryDisplayRow struct {
	DeviceID      int64  `json:"deviceId"`
	DeviceName    string `json:"deviceName"`
	StartDate     string `json:"startDate"`
	Distance      string `json:"distance"`
	AverageSpeed  string `json:"averageSpeed"`
	MaxSpeed      string `json:"maxSpeed"`
	EngineHours   string `json:"engineHours"`
	SpentFuel     string `json:"spentFuel"`
	StartOdometer string `json:"startOdometer"`
	EndOdometer   string `json:"endOdometer"`
}

// CombinedDisplayRow is one flattened event row of the combined report. The
// device name is set only on the first row of each item, mimicking the group
// header convention of the table.
type CombinedDisplayRow struct {
	EventID    int64  `json:"eventId"`
	DeviceID   int64  `json:"deviceId"`
	DeviceName string `json:"deviceName"`
	FixTime    string `json:"fixTime"`
	Type       string `json:"type"`
}

// Synthesizer joins raw report rows with the device registry and renders
// every displayed column through the formatter library and the preference
// resolver. It holds no per-report state: the same payload and preferences
// always produce the same output.
type Synthesizer struct {
	registry   *registry.Store
	resolver   *prefs.Resolver
	translator format.Translator
	defaults   config.DisplayConfig
}

func NewSynthesizer(reg *registry.Store, resolver *prefs.Resolver, t format.Translator, defaults config.DisplayConfig) *Synthesizer {
	return &Synthesizer{
		registry:   reg,
		resolver:   resolver,
		translator: t,
		defaults:   defaults,
	}
}

// deviceName resolves the display name for a device through the
// devicePrimary preference. A row referencing an unknown device renders a
// blank name; a single gap never aborts the page.
func (s *Synthesizer) deviceName(deviceID int64) string {
	device := s.registry.Device(deviceID)
	if device == nil {
		return ""
	}
	primary := s.resolver.String(PrefDevicePrimary, deviceID, s.defaults.DevicePrimary)
	return device.Field(primary)
}

// DevicePrimary resolves the display name shown as a device's title.
func (s *Synthesizer) DevicePrimary(deviceID int64) string {
	return s.deviceName(deviceID)
}

// DeviceSecondary resolves the optional subtitle field, or "" when the
// preference is unset.
func (s *Synthesizer) DeviceSecondary(deviceID int64) string {
	device := s.registry.Device(deviceID)
	if device == nil {
		return ""
	}
	secondary := s.resolver.String(PrefDeviceSecondary, deviceID, s.defaults.DeviceSecondary)
	if secondary == "" {
		return ""
	}
	return device.Field(secondary)
}

// SynthesizeStops renders stop rows for display. Engine hours render blank
// when not positive, matching the table's empty-cell convention.
func (s *Synthesizer) SynthesizeStops(rows []StopRow) []StopDisplayRow {
	out := make([]StopDisplayRow, 0, len(rows))
	for _, row := range rows {
		volumeUnit := s.resolver.String(PrefVolumeUnit, row.DeviceID, s.defaults.VolumeUnit)
		display := StopDisplayRow{
			PositionID: row.PositionID,
			DeviceID:   row.DeviceID,
			DeviceName: s.deviceName(row.DeviceID),
			StartTime:  format.Time(row.StartTime, format.PrecisionMinutes),
			EndTime:    format.Time(row.EndTime, format.PrecisionMinutes),
			Duration:   format.NumericHours(row.Duration),
			Address:    row.Address,
			Latitude:   row.Latitude,
			Longitude:  row.Longitude,
		}
		if row.EngineHours > 0 {
			display.EngineHours = format.NumericHours(row.EngineHours)
		}
		if row.SpentFuel > 0 {
			display.SpentFuel = format.Volume(row.SpentFuel, volumeUnit)
		}
		out = append(out, display)
	}
	return out
}

// SynthesizeSummary renders summary rows for display. Distance and odometer
// columns share the device's distance unit, speed columns its speed unit.
func (s *Synthesizer) SynthesizeSummary(rows []SummaryRow) []SummaryDisplayRow {
	out := make([]SummaryDisplayRow, 0, len(rows))
	for _, row := range rows {
		distanceUnit := s.resolver.String(PrefDistanceUnit, row.DeviceID, s.defaults.DistanceUnit)
		speedUnit := s.resolver.String(PrefSpeedUnit, row.DeviceID, s.defaults.SpeedUnit)
		volumeUnit := s.resolver.String(PrefVolumeUnit, row.DeviceID, s.defaults.VolumeUnit)
		display := SummaryDisplayRow{
			DeviceID:      row.DeviceID,
			DeviceName:    s.deviceName(row.DeviceID),
			StartDate:     format.Time(row.StartTime, format.PrecisionDate),
			Distance:      format.Distance(row.Distance, distanceUnit),
			AverageSpeed:  format.Speed(row.AverageSpeed, speedUnit),
			MaxSpeed:      format.Speed(row.MaxSpeed, speedUnit),
			StartOdometer: format.Distance(row.StartOdometer, distanceUnit),
			EndOdometer:   format.Distance(row.EndOdometer, distanceUnit),
		}
		if row.EngineHours > 0 {
			display.EngineHours = format.NumericHours(row.EngineHours)
		}
		if row.SpentFuel > 0 {
			display.SpentFuel = format.Volume(row.SpentFuel, volumeUnit)
		}
		out = append(out, display)
	}
	return out
}

// FlattenCombined flattens items[].events into one ordered row sequence,
// preserving arrival order within and across items. The pagination count for
// the combined report is the length of this sequence, not the item count.
func (s *Synthesizer) FlattenCombined(items []CombinedItem) []CombinedDisplayRow {
	var out []CombinedDisplayRow
	for _, item := range items {
		name := s.deviceName(item.DeviceID)
		for i, event := range item.Events {
			row := CombinedDisplayRow{
				EventID:  event.ID,
				DeviceID: item.DeviceID,
				FixTime:  format.Time(event.EventTime, format.PrecisionSeconds),
				Type:     format.Event(event.Type, s.translator),
			}
			if i == 0 {
				row.DeviceName = name
			}
			out = append(out, row)
		}
	}
	return out
}

// Paginate slices rows into the window [page*rowsPerPage, +rowsPerPage). Any
// page or size input yields a valid (possibly empty) slice of the flattened
// sequence.
func Paginate[T any](rows []T, page, rowsPerPage int) []T {
	if rowsPerPage <= 0 || page < 0 || len(rows) == 0 {
		return nil
	}
	// bounds-check before multiplying so a huge page cannot wrap negative
	if page > (len(rows)-1)/rowsPerPage {
		return nil
	}
	start := page * rowsPerPage
	end := start + rowsPerPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
