package report

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"fleettrack/internal/config"
	apperrors "fleettrack/pkg/errors"

	"github.com/go-resty/resty/v2"
)

// Client talks to the tracking backend's report API. Authentication happens
// elsewhere; the client only carries an opaque session cookie.
type Client struct {
	http    *resty.Client
	baseURL string
}

func NewClient(cfg *config.BackendConfig) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.SessionCookie != "" {
		http.SetHeader("Cookie", cfg.SessionCookie)
	}
	return &Client{http: http, baseURL: cfg.BaseURL}
}

func reportQuery(deviceIDs []int64, from, to time.Time) url.Values {
	query := url.Values{}
	query.Set("from", from.UTC().Format(time.RFC3339))
	query.Set("to", to.UTC().Format(time.RFC3339))
	for _, id := range deviceIDs {
		query.Add("deviceId", strconv.FormatInt(id, 10))
	}
	return query
}

// Combined fetches combined report items for the selected devices.
func (c *Client) Combined(ctx context.Context, deviceIDs []int64, from, to time.Time) ([]CombinedItem, error) {
	if len(deviceIDs) == 0 {
		return nil, apperrors.ErrEmptySelection
	}
	var items []CombinedItem
	if err := c.getJSON(ctx, "/api/reports/combined", reportQuery(deviceIDs, from, to), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Stops fetches stop intervals for a single device.
func (c *Client) Stops(ctx context.Context, deviceID int64, from, to time.Time) ([]StopRow, error) {
	var rows []StopRow
	if err := c.getJSON(ctx, "/api/reports/stops", reportQuery([]int64{deviceID}, from, to), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Summary fetches per-device rollups; daily splits them by calendar day.
func (c *Client) Summary(ctx context.Context, deviceIDs []int64, from, to time.Time, daily bool) ([]SummaryRow, error) {
	if len(deviceIDs) == 0 {
		return nil, apperrors.ErrEmptySelection
	}
	query := reportQuery(deviceIDs, from, to)
	if daily {
		query.Set("daily", "true")
	}
	var rows []SummaryRow
	if err := c.getJSON(ctx, "/api/reports/summary", query, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// StopsExportURL builds the spreadsheet export URL. The export is a browser
// navigation, not a fetch, so only the URL is produced here.
func (c *Client) StopsExportURL(deviceID int64, from, to time.Time) string {
	return fmt.Sprintf("%s/api/reports/stops/xlsx?%s",
		c.baseURL, reportQuery([]int64{deviceID}, from, to).Encode())
}

// MailStops asks the backend to email the stop report. Fire and forget: a
// 2xx means dispatched, a non-2xx body is the user-visible error.
func (c *Client) MailStops(ctx context.Context, deviceID int64, from, to time.Time) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(reportQuery([]int64{deviceID}, from, to)).
		Get("/api/reports/stops/mail")
	if err != nil {
		return apperrors.NewNetworkFailure(err)
	}
	if resp.IsError() {
		return apperrors.NewServerError(resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		SetResult(out).
		Get(path)
	if err != nil {
		return apperrors.NewNetworkFailure(err)
	}
	if resp.IsError() {
		return apperrors.NewServerError(resp.StatusCode(), string(resp.Body()))
	}
	return nil
}
