package page

import (
	"context"

	"fleettrack/internal/overlay"
	"fleettrack/internal/report"
)

// SummaryController drives the summary report page. Summaries have no map
// component; the overlay stays empty.
type SummaryController struct {
	controller
	client      *report.Client
	synthesizer *report.Synthesizer

	rows []report.SummaryDisplayRow
}

func NewSummaryController(client *report.Client, synthesizer *report.Synthesizer) *SummaryController {
	return &SummaryController{
		controller:  newController(),
		client:      client,
		synthesizer: synthesizer,
	}
}

func (c *SummaryController) Submit(ctx context.Context, window Window) {
	seq := c.begin()

	raw, err := c.client.Summary(ctx, window.DeviceIDs, window.From, window.To, window.Daily)
	c.finish(seq, err, func() {
		c.rows = c.synthesizer.SynthesizeSummary(raw)
	})
}

func (c *SummaryController) SetPage(page int)        { c.setPage(page) }
func (c *SummaryController) SetRowsPerPage(rows int) { c.setRowsPerPage(rows) }

func (c *SummaryController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:       c.state,
		Error:       c.errMessage,
		Rows:        report.Paginate(c.rows, c.page, c.rowsPerPage),
		Count:       len(c.rows),
		Page:        c.page,
		RowsPerPage: c.rowsPerPage,
		Overlay:     overlay.Overlay{Camera: overlay.Camera{Empty: true}},
	}
}
