package page

import (
	"context"

	"fleettrack/internal/overlay"
	"fleettrack/internal/report"
)

// CombinedController drives the combined report page: flattened event rows in
// the table, every device's route plus event markers on the map.
type CombinedController struct {
	controller
	client      *report.Client
	synthesizer *report.Synthesizer
	projector   *overlay.Projector

	items []report.CombinedItem
	rows  []report.CombinedDisplayRow
}

func NewCombinedController(client *report.Client, synthesizer *report.Synthesizer, projector *overlay.Projector) *CombinedController {
	return &CombinedController{
		controller:  newController(),
		client:      client,
		synthesizer: synthesizer,
		projector:   projector,
	}
}

func (c *CombinedController) Submit(ctx context.Context, window Window) {
	seq := c.begin()

	items, err := c.client.Combined(ctx, window.DeviceIDs, window.From, window.To)
	c.finish(seq, err, func() {
		c.items = items
		c.rows = c.synthesizer.FlattenCombined(items)
	})
}

func (c *CombinedController) SetPage(page int)        { c.setPage(page) }
func (c *CombinedController) SetRowsPerPage(rows int) { c.setRowsPerPage(rows) }

func (c *CombinedController) Snapshot() Snapshot {
	c.mu.Lock()
	items := c.items
	rows := c.rows
	state := c.state
	errMessage := c.errMessage
	page := c.page
	rowsPerPage := c.rowsPerPage
	c.mu.Unlock()

	// Count is the flattened event total, not the item count; the pager
	// walks event rows.
	return Snapshot{
		State:       state,
		Error:       errMessage,
		Rows:        report.Paginate(rows, page, rowsPerPage),
		Count:       len(rows),
		Page:        page,
		RowsPerPage: rowsPerPage,
		Overlay:     c.projector.Project(items),
	}
}
