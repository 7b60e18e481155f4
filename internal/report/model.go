package report

import (
	"encoding/json"
	"fmt"
	"time"

	"fleettrack/internal/model"
)

// Kind selects which report a page works with.
type Kind string

const (
	KindCombined Kind = "combined"
	KindStops    Kind = "stops"
	KindSummary  Kind = "summary"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindCombined, KindStops, KindSummary:
		return Kind(s), true
	default:
		return "", false
	}
}

// StopRow is one stop interval as returned by the backend. Durations are
// milliseconds.
type StopRow struct {
	PositionID  int64     `json:"positionId"`
	DeviceID    int64     `json:"deviceId"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Duration    int64     `json:"duration"`
	EngineHours int64     `json:"engineHours"`
	SpentFuel   float64   `json:"spentFuel"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Address     string    `json:"address"`
}

// SummaryRow is one per-device (or per-day when daily) rollup. Distance and
// odometers are meters, speeds are knots.
type SummaryRow struct {
	DeviceID      int64     `json:"deviceId"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Distance      float64   `json:"distance"`
	AverageSpeed  float64   `json:"averageSpeed"`
	MaxSpeed      float64   `json:"maxSpeed"`
	EngineHours   int64     `json:"engineHours"`
	SpentFuel     float64   `json:"spentFuel"`
	StartOdometer float64   `json:"startOdometer"`
	EndOdometer   float64   `json:"endOdometer"`
}

// Event is a single device event inside a combined report item.
type Event struct {
	ID         int64     `json:"id"`
	DeviceID   int64     `json:"deviceId"`
	Type       string    `json:"type"`
	EventTime  time.Time `json:"eventTime"`
	PositionID int64     `json:"positionId"`
}

// Coordinate is one vertex of a route polyline. The backend encodes route
// vertices as [longitude, latitude] pairs; object form is accepted too.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var pair []float64
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		if len(pair) < 2 {
			return fmt.Errorf("route vertex has %d elements, want 2", len(pair))
		}
		c.Longitude, c.Latitude = pair[0], pair[1]
		return nil
	}
	type plain Coordinate
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Coordinate(p)
	return nil
}

// CombinedItem groups one device's route, raw positions, and events for the
// combined report. Order of items and of events within an item is the
// backend's arrival order and is preserved untouched.
type CombinedItem struct {
	DeviceID  int64            `json:"deviceId"`
	Route     []Coordinate     `json:"route"`
	Positions []model.Position `json:"positions"`
	Events    []Event          `json:"events"`
}
