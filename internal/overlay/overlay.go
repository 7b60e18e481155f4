// Package overlay projects synthesized report data into the geometric
// primitives the map surface consumes: point markers, named route polylines,
// and a camera-fit request. Geometry is derived state; it is rebuilt in one
// pass whenever the underlying rows or the focused selection change, never
// patched incrementally.
package overlay

import (
	"encoding/binary"
	"math"
	"sync"

	"fleettrack/internal/report"

	"github.com/cespare/xxhash/v2"
)

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Marker struct {
	Point
	DeviceID int64 `json:"deviceId"`
}

// Route is one device's polyline, named after the device for the map legend.
type Route struct {
	DeviceID    int64   `json:"deviceId"`
	Name        string  `json:"name"`
	Coordinates []Point `json:"coordinates"`
}

// Camera is a fit request for the map viewport: a bounding box when more than
// one coordinate exists, a single-point center otherwise.
type Camera struct {
	Center *Point  `json:"center,omitempty"`
	MinLat float64 `json:"minLatitude"`
	MaxLat float64 `json:"maxLatitude"`
	MinLon float64 `json:"minLongitude"`
	MaxLon float64 `json:"maxLongitude"`
	Empty  bool    `json:"empty"`
}

type Overlay struct {
	Markers []Marker `json:"markers"`
	Routes  []Route  `json:"routes"`
	Camera  Camera   `json:"camera"`
}

// DeviceNamer resolves a device id to its display name for route legends.
type DeviceNamer func(deviceID int64) string

// Projector rebuilds overlay geometry from combined report items. The result
// is memoized under a content hash of the input coordinates so an unchanged
// dataset skips the rebuild; keys are content-based, never pointer identity.
type Projector struct {
	namer DeviceNamer

	mu       sync.Mutex
	lastHash uint64
	lastOut  *Overlay
}

func NewProjector(namer DeviceNamer) *Projector {
	return &Projector{namer: namer}
}

// Project derives the full overlay for combined report items: one marker per
// event with a resolvable linked position (events without one are skipped),
// one polyline per device route, and a camera fit over every coordinate.
func (p *Projector) Project(items []report.CombinedItem) Overlay {
	hash := hashItems(items)

	p.mu.Lock()
	if p.lastOut != nil && p.lastHash == hash {
		out := *p.lastOut
		p.mu.Unlock()
		return out
	}
	p.mu.Unlock()

	out := Overlay{}
	var fit boundsAccumulator

	for _, item := range items {
		positions := make(map[int64]Point, len(item.Positions))
		for _, pos := range item.Positions {
			positions[pos.ID] = Point{Latitude: pos.Latitude, Longitude: pos.Longitude}
		}
		for _, event := range item.Events {
			point, ok := positions[event.PositionID]
			if !ok {
				continue
			}
			out.Markers = append(out.Markers, Marker{Point: point, DeviceID: item.DeviceID})
		}

		if len(item.Route) > 0 {
			route := Route{DeviceID: item.DeviceID, Name: p.namer(item.DeviceID)}
			for _, c := range item.Route {
				point := Point{Latitude: c.Latitude, Longitude: c.Longitude}
				route.Coordinates = append(route.Coordinates, point)
				fit.add(point)
			}
			out.Routes = append(out.Routes, route)
		}
	}
	out.Camera = fit.camera()

	p.mu.Lock()
	p.lastHash = hash
	p.lastOut = &out
	p.mu.Unlock()
	return out
}

// ProjectFocused derives the overlay for a single focused stop row: one
// marker and a point-centered camera.
func ProjectFocused(row report.StopDisplayRow) Overlay {
	point := Point{Latitude: row.Latitude, Longitude: row.Longitude}
	return Overlay{
		Markers: []Marker{{Point: point, DeviceID: row.DeviceID}},
		Camera: Camera{
			Center: &point,
			MinLat: point.Latitude, MaxLat: point.Latitude,
			MinLon: point.Longitude, MaxLon: point.Longitude,
		},
	}
}

type boundsAccumulator struct {
	any    bool
	count  int
	minLat float64
	maxLat float64
	minLon float64
	maxLon float64
}

func (b *boundsAccumulator) add(p Point) {
	if !b.any {
		b.any = true
		b.minLat, b.maxLat = p.Latitude, p.Latitude
		b.minLon, b.maxLon = p.Longitude, p.Longitude
	} else {
		b.minLat = math.Min(b.minLat, p.Latitude)
		b.maxLat = math.Max(b.maxLat, p.Latitude)
		b.minLon = math.Min(b.minLon, p.Longitude)
		b.maxLon = math.Max(b.maxLon, p.Longitude)
	}
	b.count++
}

func (b *boundsAccumulator) camera() Camera {
	if !b.any {
		return Camera{Empty: true}
	}
	camera := Camera{
		MinLat: b.minLat, MaxLat: b.maxLat,
		MinLon: b.minLon, MaxLon: b.maxLon,
	}
	if b.count == 1 {
		camera.Center = &Point{Latitude: b.minLat, Longitude: b.minLon}
	}
	return camera
}

func hashItems(items []report.CombinedItem) uint64 {
	digest := xxhash.New()
	var buf [8]byte
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = digest.Write(buf[:])
	}
	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = digest.Write(buf[:])
	}
	for _, item := range items {
		writeInt(item.DeviceID)
		writeInt(int64(len(item.Route)))
		for _, c := range item.Route {
			writeFloat(c.Latitude)
			writeFloat(c.Longitude)
		}
		writeInt(int64(len(item.Events)))
		for _, e := range item.Events {
			writeInt(e.ID)
			writeInt(e.PositionID)
		}
		writeInt(int64(len(item.Positions)))
		for _, pos := range item.Positions {
			writeInt(pos.ID)
			writeFloat(pos.Latitude)
			writeFloat(pos.Longitude)
		}
	}
	return digest.Sum64()
}
