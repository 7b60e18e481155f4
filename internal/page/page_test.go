package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleettrack/internal/config"
	"fleettrack/internal/format"
	"fleettrack/internal/model"
	"fleettrack/internal/overlay"
	"fleettrack/internal/prefs"
	"fleettrack/internal/registry"
	"fleettrack/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	registry    *registry.Store
	synthesizer *report.Synthesizer
	client      *report.Client
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	reg := registry.NewStore()
	resolver := prefs.NewResolver(prefs.NewMemoryStore(nil), reg)
	synthesizer := report.NewSynthesizer(reg, resolver, format.Keyed, config.DisplayConfig{
		DistanceUnit:  "km",
		VolumeUnit:    "ltr",
		SpeedUnit:     "kmh",
		DevicePrimary: "name",
	})
	client := report.NewClient(&config.BackendConfig{BaseURL: server.URL, Timeout: 5 * time.Second})

	return &fixture{registry: reg, synthesizer: synthesizer, client: client}
}

func testWindow() Window {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return Window{DeviceIDs: []int64{1}, From: from, To: from.Add(24 * time.Hour)}
}

func TestStops_SubmitSuccess(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"positionId":10,"deviceId":1,"duration":1800000,"latitude":51.5,"longitude":-0.12,"address":"Depot"}]`))
	})
	f.registry.UpsertDevice(model.Device{ID: 1, Name: "Truck A"})
	c := NewStopsController(f.client, f.synthesizer)

	c.Submit(context.Background(), testWindow())

	snap := c.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Empty(t, snap.Error)
	assert.Equal(t, 1, snap.Count)
	rows, ok := snap.Rows.([]report.StopDisplayRow)
	require.True(t, ok)
	assert.Equal(t, "Truck A", rows[0].DeviceName)
}

func TestStops_ServerErrorKeepsPriorRows(t *testing.T) {
	fail := false
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("no data"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"positionId":10,"deviceId":1,"duration":60000}]`))
	})
	c := NewStopsController(f.client, f.synthesizer)

	// first load succeeds
	c.Submit(context.Background(), testWindow())
	require.Equal(t, StateReady, c.Snapshot().State)

	// second load fails; the message surfaces, the rows stand
	fail = true
	c.Submit(context.Background(), testWindow())

	snap := c.Snapshot()
	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, "no data", snap.Error)
	assert.Equal(t, 1, snap.Count)
}

func TestStops_FirstLoadFailureLeavesEmptyRows(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("no data"))
	})
	c := NewStopsController(f.client, f.synthesizer)

	c.Submit(context.Background(), testWindow())

	snap := c.Snapshot()
	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, "no data", snap.Error)
	assert.Zero(t, snap.Count)
}

func TestStops_FocusAndBlur(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"positionId":10,"deviceId":1,"latitude":48.85,"longitude":2.35}]`))
	})
	c := NewStopsController(f.client, f.synthesizer)
	c.Submit(context.Background(), testWindow())

	c.Focus(10)
	snap := c.Snapshot()
	require.Len(t, snap.Overlay.Markers, 1)
	require.NotNil(t, snap.Overlay.Camera.Center)
	assert.Equal(t, 48.85, snap.Overlay.Camera.Center.Latitude)

	c.Blur()
	snap = c.Snapshot()
	assert.Empty(t, snap.Overlay.Markers)
	assert.True(t, snap.Overlay.Camera.Empty)
}

func TestStops_FocusUnknownClearsSelection(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"positionId":10,"deviceId":1,"latitude":48.85,"longitude":2.35}]`))
	})
	c := NewStopsController(f.client, f.synthesizer)
	c.Submit(context.Background(), testWindow())

	c.Focus(10)
	c.Focus(999)

	assert.Empty(t, c.Snapshot().Overlay.Markers)
}

func TestCombined_CountIsFlattenedEvents(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"deviceId":1,"route":[[-0.12,51.5]],"positions":[{"id":10,"deviceId":1,"latitude":51.5,"longitude":-0.12}],
			 "events":[{"id":100,"deviceId":1,"type":"deviceMoving","positionId":10},{"id":101,"deviceId":1,"type":"deviceStopped","positionId":10}]},
			{"deviceId":2,"route":[],"positions":[],"events":[{"id":200,"deviceId":2,"type":"geofenceExit","positionId":0}]}
		]`))
	})
	f.registry.UpsertDevice(model.Device{ID: 1, Name: "Truck A"})
	f.registry.UpsertDevice(model.Device{ID: 2, Name: "Truck B"})
	projector := overlay.NewProjector(f.synthesizer.DevicePrimary)
	c := NewCombinedController(f.client, f.synthesizer, projector)

	c.Submit(context.Background(), Window{DeviceIDs: []int64{1, 2}, From: time.Now().Add(-time.Hour), To: time.Now()})

	snap := c.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, 3, snap.Count)
	assert.Len(t, snap.Overlay.Routes, 1)
	assert.Len(t, snap.Overlay.Markers, 2)
}

func TestSummary_Submit(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("daily"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"deviceId":1,"startTime":"2026-03-01T00:00:00Z","distance":160934}]`))
	})
	f.registry.UpsertDevice(model.Device{ID: 1, Name: "Truck A"})
	c := NewSummaryController(f.client, f.synthesizer)

	window := testWindow()
	window.Daily = true
	c.Submit(context.Background(), window)

	snap := c.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	rows, ok := snap.Rows.([]report.SummaryDisplayRow)
	require.True(t, ok)
	assert.Equal(t, "161 km", rows[0].Distance)
	assert.True(t, snap.Overlay.Camera.Empty)
}

func TestPagination_WindowAndReset(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"positionId":1,"deviceId":1},{"positionId":2,"deviceId":1},{"positionId":3,"deviceId":1},
			{"positionId":4,"deviceId":1},{"positionId":5,"deviceId":1}
		]`))
	})
	c := NewStopsController(f.client, f.synthesizer)
	c.Submit(context.Background(), testWindow())

	c.SetRowsPerPage(2)
	c.SetPage(2)
	snap := c.Snapshot()
	rows := snap.Rows.([]report.StopDisplayRow)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(5), rows[0].PositionID)

	// changing the page size snaps back to the first page
	c.SetRowsPerPage(3)
	snap = c.Snapshot()
	assert.Equal(t, 0, snap.Page)
	assert.Len(t, snap.Rows.([]report.StopDisplayRow), 3)
}

func TestSequenceGuard_StaleResponseDiscarded(t *testing.T) {
	c := newController()

	first := c.begin()
	second := c.begin()

	// the newer submission's response lands first
	assert.True(t, c.finish(second, nil, nil))
	assert.Equal(t, StateReady, c.state)

	// the older one straggles in afterwards and is dropped
	assert.False(t, c.finish(first, nil, func() { t.Fatal("stale apply must not run") }))
	assert.Equal(t, StateReady, c.state)
}

func TestSequenceGuard_StaleFailureDiscarded(t *testing.T) {
	c := newController()

	first := c.begin()
	second := c.begin()

	require.True(t, c.finish(second, nil, nil))

	// a stale failure must not flip a fresher Ready state to Failed
	assert.False(t, c.finish(first, assert.AnError, nil))
	assert.Equal(t, StateReady, c.state)
	assert.Empty(t, c.errMessage)
}

func TestController_InitialStateIdle(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	c := NewStopsController(f.client, f.synthesizer)

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Zero(t, snap.Count)
	assert.True(t, snap.Overlay.Camera.Empty)
}
