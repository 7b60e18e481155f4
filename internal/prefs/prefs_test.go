package prefs

import (
	"testing"

	"fleettrack/internal/model"
	"fleettrack/internal/registry"

	"github.com/stretchr/testify/assert"
)

func newTestResolver(t *testing.T, userPrefs map[string]any) (*Resolver, *registry.Store) {
	t.Helper()
	reg := registry.NewStore()
	return NewResolver(NewMemoryStore(userPrefs), reg), reg
}

func TestString_DeviceOverrideWins(t *testing.T) {
	resolver, reg := newTestResolver(t, map[string]any{"distanceUnit": "mi"})
	reg.UpsertDevice(model.Device{
		ID:         1,
		Attributes: map[string]any{"distanceUnit": "nmi"},
	})

	assert.Equal(t, "nmi", resolver.String("distanceUnit", 1, "km"))
}

func TestString_UserPreferenceBeatsDefault(t *testing.T) {
	resolver, reg := newTestResolver(t, map[string]any{"distanceUnit": "mi"})
	reg.UpsertDevice(model.Device{ID: 1})

	assert.Equal(t, "mi", resolver.String("distanceUnit", 1, "km"))
}

func TestString_FallsBackToDefault(t *testing.T) {
	resolver, _ := newTestResolver(t, nil)
	assert.Equal(t, "km", resolver.String("distanceUnit", 0, "km"))
}

func TestString_EmptyOverrideIsAbsent(t *testing.T) {
	resolver, reg := newTestResolver(t, map[string]any{"distanceUnit": "mi"})
	reg.UpsertDevice(model.Device{
		ID:         1,
		Attributes: map[string]any{"distanceUnit": ""},
	})

	assert.Equal(t, "mi", resolver.String("distanceUnit", 1, "km"))
}

func TestString_UnknownDeviceSkipsOverride(t *testing.T) {
	resolver, _ := newTestResolver(t, map[string]any{"distanceUnit": "mi"})
	assert.Equal(t, "mi", resolver.String("distanceUnit", 42, "km"))
}

func TestFloat(t *testing.T) {
	resolver, reg := newTestResolver(t, map[string]any{"web.maxZoom": 17})
	reg.UpsertDevice(model.Device{
		ID:         1,
		Attributes: map[string]any{"web.maxZoom": "19"},
	})

	assert.Equal(t, 19.0, resolver.Float("web.maxZoom", 1, 10))
	assert.Equal(t, 17.0, resolver.Float("web.maxZoom", 0, 10))
	assert.Equal(t, 10.0, resolver.Float("web.minZoom", 0, 10))
}

func TestBool(t *testing.T) {
	resolver, reg := newTestResolver(t, map[string]any{"mapFollow": true})
	reg.UpsertDevice(model.Device{
		ID:         1,
		Attributes: map[string]any{"mapFollow": "false"},
	})

	assert.False(t, resolver.Bool("mapFollow", 1, true))
	assert.True(t, resolver.Bool("mapFollow", 0, false))
	assert.True(t, resolver.Bool("mapCluster", 0, true))
}
