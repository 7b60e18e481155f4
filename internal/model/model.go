package model

import (
	"time"

	"github.com/spf13/cast"
)

// Device connectivity states as reported by the tracking backend.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusUnknown = "unknown"
)

// Device is a tracked asset. Instances are owned by the registry and updated
// wholesale from backend pushes; they are never deleted during a session.
type Device struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	UniqueID   string         `json:"uniqueId"`
	Category   string         `json:"category"`
	Status     string         `json:"status"`
	LastUpdate time.Time      `json:"lastUpdate"`
	Disabled   bool           `json:"disabled"`
	Attributes map[string]any `json:"attributes"`
}

// Position is a single geolocation sample. Exactly one current position per
// device is retained by the registry.
type Position struct {
	ID         int64          `json:"id"`
	DeviceID   int64          `json:"deviceId"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	Altitude   float64        `json:"altitude"`
	Speed      float64        `json:"speed"`
	Course     float64        `json:"course"`
	FixTime    time.Time      `json:"fixTime"`
	Attributes map[string]any `json:"attributes"`
}

// Optional position attribute keys carried by some devices.
const (
	AttrAlarm        = "alarm"
	AttrIgnition     = "ignition"
	AttrBatteryLevel = "batteryLevel"
	AttrCharge       = "charge"
)

// HasAttribute reports key presence, distinct from truthiness. Indicators like
// ignition render on presence alone.
func (p *Position) HasAttribute(key string) bool {
	if p == nil || p.Attributes == nil {
		return false
	}
	_, ok := p.Attributes[key]
	return ok
}

func (p *Position) StringAttribute(key string) string {
	if !p.HasAttribute(key) {
		return ""
	}
	return cast.ToString(p.Attributes[key])
}

func (p *Position) BoolAttribute(key string) bool {
	if !p.HasAttribute(key) {
		return false
	}
	return cast.ToBool(p.Attributes[key])
}

func (p *Position) FloatAttribute(key string) float64 {
	if !p.HasAttribute(key) {
		return 0
	}
	return cast.ToFloat64(p.Attributes[key])
}

// Attribute returns a device attribute as a string, or "" when absent. Used
// for display-preference overrides.
func (d *Device) Attribute(key string) string {
	if d == nil || d.Attributes == nil {
		return ""
	}
	if v, ok := d.Attributes[key]; ok {
		return cast.ToString(v)
	}
	return ""
}

// Field resolves a named device field for display (devicePrimary and
// deviceSecondary preferences). Unknown names fall back to the attribute map.
func (d *Device) Field(name string) string {
	if d == nil {
		return ""
	}
	switch name {
	case "", "name":
		return d.Name
	case "uniqueId":
		return d.UniqueID
	case "category":
		return d.Category
	default:
		return d.Attribute(name)
	}
}
