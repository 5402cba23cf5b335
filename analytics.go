package liteapi

import (
	"context"
	"encoding/json"

	"github.com/gaborage/go-liteapi/transport"
)

// AnalyticsRange bounds a report. Dates use YYYY-MM-DD.
type AnalyticsRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Analytics wraps the dashboard reports. Its caller must target the dashboard API.
type Analytics struct {
	caller transport.Caller
}

func NewAnalytics(caller transport.Caller) *Analytics {
	return &Analytics{caller: caller}
}

func (a *Analytics) Weekly(ctx context.Context, r AnalyticsRange) (json.RawMessage, error) {
	return a.caller.Post(ctx, "analytics/weekly", r)
}

func (a *Analytics) Report(ctx context.Context, r AnalyticsRange) (json.RawMessage, error) {
	return a.caller.Post(ctx, "analytics/report", r)
}

func (a *Analytics) Market(ctx context.Context, r AnalyticsRange) (json.RawMessage, error) {
	return a.caller.Post(ctx, "analytics/market", r)
}

func (a *Analytics) MostBookedHotels(ctx context.Context, r AnalyticsRange) (json.RawMessage, error) {
	return a.caller.Post(ctx, "analytics/top-hotels", r)
}
