// Package page owns the per-report-page state machines: Idle → Loading →
// {Ready, Failed}, re-entrant on the next submission. A failed fetch surfaces
// its message and leaves the previously loaded rows and overlay untouched.
package page

import (
	"sync"
	"time"

	"fleettrack/internal/overlay"
	apperrors "fleettrack/pkg/errors"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Window is the report request the user submitted.
type Window struct {
	DeviceIDs []int64   `json:"deviceIds"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Daily     bool      `json:"daily"`
}

// Snapshot is what the delivery layer renders for a page: the current state,
// the page window of formatted rows, and the overlay geometry.
type Snapshot struct {
	State       State           `json:"state"`
	Error       string          `json:"error,omitempty"`
	Rows        any             `json:"rows"`
	Count       int             `json:"count"`
	Page        int             `json:"page"`
	RowsPerPage int             `json:"rowsPerPage"`
	Overlay     overlay.Overlay `json:"overlay"`
}

const defaultRowsPerPage = 10

// controller carries the state shared by every report page: the lifecycle
// state, pagination window, and the submission sequence guard. Each Submit
// takes the next sequence number; a response is applied only when no newer
// outcome has been applied before it, so a stale response can never overwrite
// fresher rows.
type controller struct {
	mu          sync.Mutex
	state       State
	errMessage  string
	page        int
	rowsPerPage int

	nextSeq    uint64
	appliedSeq uint64
}

func newController() controller {
	return controller{state: StateIdle, rowsPerPage: defaultRowsPerPage}
}

// begin transitions to Loading and hands out the submission's sequence
// number.
func (c *controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSeq++
	c.state = StateLoading
	c.errMessage = ""
	return c.nextSeq
}

// finish applies a submission outcome under the sequence guard. apply runs
// with the lock held and only when the outcome is still the newest; it
// returns false when the response was discarded as stale.
func (c *controller) finish(seq uint64, err error, apply func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.appliedSeq {
		return false
	}
	c.appliedSeq = seq
	if err != nil {
		c.state = StateFailed
		c.errMessage = userMessage(err)
		return true
	}
	c.state = StateReady
	c.page = 0
	if apply != nil {
		apply()
	}
	return true
}

// userMessage maps the error taxonomy to what the user sees: a backend body
// text verbatim, a generic line for transport failures.
func userMessage(err error) string {
	if se, ok := apperrors.AsServerError(err); ok {
		return se.Message
	}
	return err.Error()
}

func (c *controller) setPage(page int) {
	c.mu.Lock()
	if page >= 0 {
		c.page = page
	}
	c.mu.Unlock()
}

// setRowsPerPage resets to the first page, same as the table widget does.
func (c *controller) setRowsPerPage(rows int) {
	c.mu.Lock()
	if rows > 0 {
		c.rowsPerPage = rows
		c.page = 0
	}
	c.mu.Unlock()
}
