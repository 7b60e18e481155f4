package handler

import (
	"net/http"
	"time"

	"fleettrack/internal/page"
	"fleettrack/internal/report"
	apperrors "fleettrack/pkg/errors"
	"fleettrack/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// SubmitRequest is a report window submission from the UI.
type SubmitRequest struct {
	DeviceIDs []int64   `json:"deviceIds" binding:"required,min=1"`
	From      time.Time `json:"from" binding:"required"`
	To        time.Time `json:"to" binding:"required"`
	Daily     bool      `json:"daily"`
}

func (r *SubmitRequest) window() page.Window {
	return page.Window{DeviceIDs: r.DeviceIDs, From: r.From, To: r.To, Daily: r.Daily}
}

type FocusRequest struct {
	PositionID int64 `json:"positionId" binding:"required"`
}

type ReportHandler struct {
	combined *page.CombinedController
	stops    *page.StopsController
	summary  *page.SummaryController
}

func NewReportHandler(combined *page.CombinedController, stops *page.StopsController, summary *page.SummaryController) *ReportHandler {
	return &ReportHandler{
		combined: combined,
		stops:    stops,
		summary:  summary,
	}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.POST("/:kind", h.Submit)
		reports.GET("/:kind", h.Page)
		// the focus/export/mail operations exist only for the stop report
		reports.POST("/:kind/focus", h.FocusStop)
		reports.POST("/:kind/blur", h.BlurStop)
		reports.GET("/:kind/export", h.ExportStops)
		reports.POST("/:kind/mail", h.MailStops)
	}
}

// pageView is what every report page exposes to the HTTP layer.
type pageView interface {
	Snapshot() page.Snapshot
	SetPage(page int)
	SetRowsPerPage(rows int)
}

func (h *ReportHandler) byKind(kind report.Kind) pageView {
	switch kind {
	case report.KindCombined:
		return h.combined
	case report.KindStops:
		return h.stops
	case report.KindSummary:
		return h.summary
	default:
		return nil
	}
}

// Submit runs a report fetch through the page controller and returns the
// resulting snapshot. A backend failure still answers 200: the Failed state
// and its message are page content, not a transport error.
func (h *ReportHandler) Submit(c *gin.Context) {
	kind, ok := report.ParseKind(c.Param("kind"))
	if !ok {
		utils.ErrorResponse(c, http.StatusNotFound, "Unknown report kind")
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	window := req.window()

	switch kind {
	case report.KindCombined:
		h.combined.Submit(c.Request.Context(), window)
	case report.KindStops:
		h.stops.Submit(c.Request.Context(), window)
	case report.KindSummary:
		h.summary.Submit(c.Request.Context(), window)
	}

	c.JSON(http.StatusOK, h.byKind(kind).Snapshot())
}

// Page returns the current snapshot, optionally moving the pagination window
// first.
func (h *ReportHandler) Page(c *gin.Context) {
	kind, ok := report.ParseKind(c.Param("kind"))
	if !ok {
		utils.ErrorResponse(c, http.StatusNotFound, "Unknown report kind")
		return
	}
	view := h.byKind(kind)

	if v, exists := c.GetQuery("rowsPerPage"); exists {
		view.SetRowsPerPage(cast.ToInt(v))
	}
	if v, exists := c.GetQuery("page"); exists {
		view.SetPage(cast.ToInt(v))
	}

	c.JSON(http.StatusOK, view.Snapshot())
}

// requireStops guards the operations only the stop report supports.
func (h *ReportHandler) requireStops(c *gin.Context) bool {
	if c.Param("kind") != string(report.KindStops) {
		utils.ErrorResponse(c, http.StatusNotFound, "Operation not supported for this report kind")
		return false
	}
	return true
}

func (h *ReportHandler) FocusStop(c *gin.Context) {
	if !h.requireStops(c) {
		return
	}
	var req FocusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.stops.Focus(req.PositionID)
	c.JSON(http.StatusOK, h.stops.Snapshot())
}

func (h *ReportHandler) BlurStop(c *gin.Context) {
	if !h.requireStops(c) {
		return
	}
	h.stops.Blur()
	c.JSON(http.StatusOK, h.stops.Snapshot())
}

// ExportStops hands back the spreadsheet URL; the UI navigates to it rather
// than fetching.
func (h *ReportHandler) ExportStops(c *gin.Context) {
	if !h.requireStops(c) {
		return
	}
	var query struct {
		DeviceID int64     `form:"deviceId" binding:"required"`
		From     time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
		To       time.Time `form:"to" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid export query")
		return
	}
	window := page.Window{DeviceIDs: []int64{query.DeviceID}, From: query.From, To: query.To}
	utils.SuccessResponse(c, http.StatusOK, "Export URL built", gin.H{"url": h.stops.ExportURL(window)})
}

// MailStops triggers server-side email dispatch. Fire and forget: the
// backend's error body, when any, is the user-visible message.
func (h *ReportHandler) MailStops(c *gin.Context) {
	if !h.requireStops(c) {
		return
	}
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.stops.Mail(c.Request.Context(), req.window()); err != nil {
		if se, ok := apperrors.AsServerError(err); ok {
			utils.ErrorResponse(c, http.StatusBadGateway, se.Message)
			return
		}
		utils.ErrorResponse(c, http.StatusBadGateway, err.Error())
		return
	}
	utils.SuccessResponse(c, http.StatusAccepted, "Report email dispatched", nil)
}
