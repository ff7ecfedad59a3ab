// Package ratefeed adapts the Bank of Canada Valet API to the engine's
// RateSource port. The feed publishes one observation per business day, so the
// client asks for a trailing window and keeps the most recent observation.
package ratefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/fitadmin/gym_management_app/internal/core/domain"
	portssvc "github.com/fitadmin/gym_management_app/internal/core/ports/services"
	"github.com/fitadmin/gym_management_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// baseCurrency is the currency the feed quotes against.
const baseCurrency = "CAD"

// windowDays is the trailing window requested from the feed. Five days covers
// weekends and single holidays on which no rate is published.
const windowDays = 5

// seriesByCurrency maps a currency code to its Valet series name. A series
// FXUSDCAD quotes one USD in CAD, which is exactly the rate-to-base shape the
// converter triangulates with.
var seriesByCurrency = map[string]string{
	"USD": "FXUSDCAD",
	"EUR": "FXEURCAD",
	"GBP": "FXGBPCAD",
	"AUD": "FXAUDCAD",
	"JPY": "FXJPYCAD",
}

// Client fetches exchange rates from a Valet-style observations endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a rate feed client. The caller is expected to bound each
// fetch with a context deadline; the client sets no timeout of its own.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Ensure Client implements the RateSource port
var _ portssvc.RateSource = (*Client)(nil)

// observationsResponse mirrors the Valet JSON shape. Each observation carries
// a date and one value object per requested series.
type observationsResponse struct {
	Observations []map[string]json.RawMessage `json:"observations"`
}

type seriesValue struct {
	V string `json:"v"`
}

// FetchLatest queries the feed for the trailing window and returns the most
// recent observation as a snapshot against CAD. It returns nil on any
// network, parse or empty-result condition; the outage of a third-party feed
// must never fault a financial calculation, callers fall back to stored rates.
func (c *Client) FetchLatest(ctx context.Context) *domain.RateSnapshot {
	logger := middleware.GetLoggerFromCtx(ctx)

	seriesNames := make([]string, 0, len(seriesByCurrency))
	for _, name := range seriesByCurrency {
		seriesNames = append(seriesNames, name)
	}
	sort.Strings(seriesNames)

	end := time.Now()
	start := end.AddDate(0, 0, -windowDays)

	endpoint := fmt.Sprintf("%s/observations/%s/json?%s",
		c.baseURL,
		strings.Join(seriesNames, ","),
		url.Values{
			"start_date": {start.Format("2006-01-02")},
			"end_date":   {end.Format("2006-01-02")},
		}.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		logger.Warn("Failed to build rate feed request", "error", err)
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Rate feed request failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Rate feed returned non-OK status", "status", resp.StatusCode)
		return nil
	}

	var payload observationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Warn("Failed to decode rate feed response", "error", err)
		return nil
	}
	if len(payload.Observations) == 0 {
		logger.Warn("Rate feed returned no observations in window")
		return nil
	}

	// Observations are date-keyed by "d"; keep the most recent one that
	// actually carries rate values.
	latest := c.latestObservation(payload.Observations)
	if latest == nil {
		logger.Warn("Rate feed observations carried no usable values")
		return nil
	}

	rates := make(map[string]decimal.Decimal, len(seriesByCurrency))
	for code, series := range seriesByCurrency {
		raw, ok := latest.values[series]
		if !ok {
			continue
		}
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			logger.Warn("Rate feed value not parseable", "series", series, "value", raw)
			continue
		}
		rates[code] = parsed
	}
	if len(rates) == 0 {
		return nil
	}
	// The base converts to itself at exactly 1.
	rates[baseCurrency] = decimal.NewFromInt(1)

	return &domain.RateSnapshot{
		BaseCurrency: baseCurrency,
		Rates:        rates,
		ObservedAt:   latest.date,
		Origin:       domain.RateOriginAuto,
	}
}

type observation struct {
	date   time.Time
	values map[string]string
}

// latestObservation picks the newest dated observation that has at least one
// series value.
func (c *Client) latestObservation(raw []map[string]json.RawMessage) *observation {
	var latest *observation
	for _, entry := range raw {
		dateRaw, ok := entry["d"]
		if !ok {
			continue
		}
		var dateStr string
		if err := json.Unmarshal(dateRaw, &dateStr); err != nil {
			continue
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		values := make(map[string]string)
		for key, valueRaw := range entry {
			if key == "d" {
				continue
			}
			var value seriesValue
			if err := json.Unmarshal(valueRaw, &value); err != nil || value.V == "" {
				continue
			}
			values[key] = value.V
		}
		if len(values) == 0 {
			continue
		}

		if latest == nil || date.After(latest.date) {
			latest = &observation{date: date, values: values}
		}
	}
	return latest
}
