package page

import (
	"context"

	"fleettrack/internal/overlay"
	"fleettrack/internal/report"
)

// StopsController drives the stop report page. Selecting a row focuses it and
// its position alone feeds the map overlay; at most one row is focused.
type StopsController struct {
	controller
	client      *report.Client
	synthesizer *report.Synthesizer

	rows    []report.StopDisplayRow
	focused *report.StopDisplayRow
}

func NewStopsController(client *report.Client, synthesizer *report.Synthesizer) *StopsController {
	return &StopsController{
		controller:  newController(),
		client:      client,
		synthesizer: synthesizer,
	}
}

// Submit fetches and synthesizes a stop report window. Stop reports are
// single-device; the first selected id is used.
func (c *StopsController) Submit(ctx context.Context, window Window) {
	var deviceID int64
	if len(window.DeviceIDs) > 0 {
		deviceID = window.DeviceIDs[0]
	}
	seq := c.begin()

	raw, err := c.client.Stops(ctx, deviceID, window.From, window.To)
	c.finish(seq, err, func() {
		c.rows = c.synthesizer.SynthesizeStops(raw)
		c.focused = nil
	})
}

// Focus marks the row with the given position id as the selected one. An
// unknown id clears the focus, same as deselecting.
func (c *StopsController) Focus(positionID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focused = nil
	for i := range c.rows {
		if c.rows[i].PositionID == positionID {
			c.focused = &c.rows[i]
			return
		}
	}
}

func (c *StopsController) Blur() {
	c.mu.Lock()
	c.focused = nil
	c.mu.Unlock()
}

func (c *StopsController) SetPage(page int)        { c.setPage(page) }
func (c *StopsController) SetRowsPerPage(rows int) { c.setRowsPerPage(rows) }

// ExportURL builds the spreadsheet download URL for the window.
func (c *StopsController) ExportURL(window Window) string {
	var deviceID int64
	if len(window.DeviceIDs) > 0 {
		deviceID = window.DeviceIDs[0]
	}
	return c.client.StopsExportURL(deviceID, window.From, window.To)
}

// Mail asks the backend to email the report; the page state is not involved.
func (c *StopsController) Mail(ctx context.Context, window Window) error {
	var deviceID int64
	if len(window.DeviceIDs) > 0 {
		deviceID = window.DeviceIDs[0]
	}
	return c.client.MailStops(ctx, deviceID, window.From, window.To)
}

func (c *StopsController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	var geometry overlay.Overlay
	if c.focused != nil {
		geometry = overlay.ProjectFocused(*c.focused)
	} else {
		geometry = overlay.Overlay{Camera: overlay.Camera{Empty: true}}
	}

	return Snapshot{
		State:       c.state,
		Error:       c.errMessage,
		Rows:        report.Paginate(c.rows, c.page, c.rowsPerPage),
		Count:       len(c.rows),
		Page:        c.page,
		RowsPerPage: c.rowsPerPage,
		Overlay:     geometry,
	}
}
