package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"stock_tracker_backend/models"

	"github.com/shopspring/decimal"
)

const alphaVantageTimeLayout = "2006-01-02 15:04:05"

// AlphaVantageProvider fetches quotes and intraday bars from an Alpha
// Vantage-compatible API. All numeric fields arrive as strings and are parsed
// with decimal before converting to float64.
type AlphaVantageProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewAlphaVantageProvider creates a provider against the given base URL.
func NewAlphaVantageProvider(baseURL, apiKey string, timeout time.Duration) *AlphaVantageProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AlphaVantageProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *AlphaVantageProvider) Name() string { return "alphavantage" }

// globalQuoteResponse mirrors the GLOBAL_QUOTE payload shape.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Open          string `json:"02. open"`
		High          string `json:"03. high"`
		Low           string `json:"04. low"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// intradayResponse mirrors the TIME_SERIES_INTRADAY payload: a time-keyed map
// of per-bar prices.
type intradayResponse struct {
	Series map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series (1min)"`
}

// FetchQuote fetches the current quote for symbol.
func (p *AlphaVantageProvider) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	body, err := p.get(ctx, url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {symbol},
		"apikey":   {p.apiKey},
	})
	if err != nil {
		return models.Quote{}, err
	}

	var payload globalQuoteResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.Quote{}, fmt.Errorf("%w: decode quote: %v", models.ErrMalformedPayload, err)
	}
	if payload.GlobalQuote.Price == "" {
		return models.Quote{}, fmt.Errorf("%w: quote response missing price", models.ErrMalformedPayload)
	}

	price, err := parseDecimalField(payload.GlobalQuote.Price)
	if err != nil {
		return models.Quote{}, err
	}
	if price <= 0 {
		return models.Quote{}, fmt.Errorf("%w: non-positive price %q", models.ErrMalformedPayload, payload.GlobalQuote.Price)
	}
	open, _ := parseDecimalField(payload.GlobalQuote.Open)
	high, _ := parseDecimalField(payload.GlobalQuote.High)
	low, _ := parseDecimalField(payload.GlobalQuote.Low)
	volume, _ := parseDecimalField(payload.GlobalQuote.Volume)
	changePct, _ := parseDecimalField(strings.TrimSuffix(payload.GlobalQuote.ChangePercent, "%"))

	return models.Quote{
		Symbol:          symbol,
		Price:           price,
		TimestampMillis: time.Now().UnixMilli(),
		Volume:          int64(volume),
		ChangePercent:   changePct,
		High:            high,
		Low:             low,
		Open:            open,
	}, nil
}

// FetchIntraday fetches the recent 1-minute bar series for symbol, ascending
// by time.
func (p *AlphaVantageProvider) FetchIntraday(ctx context.Context, symbol string) ([]intradayBar, error) {
	body, err := p.get(ctx, url.Values{
		"function": {"TIME_SERIES_INTRADAY"},
		"symbol":   {symbol},
		"interval": {"1min"},
		"apikey":   {p.apiKey},
	})
	if err != nil {
		return nil, err
	}

	var payload intradayResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode intraday: %v", models.ErrMalformedPayload, err)
	}
	if len(payload.Series) == 0 {
		return nil, fmt.Errorf("%w: intraday response has no series", models.ErrMalformedPayload)
	}

	bars := make([]intradayBar, 0, len(payload.Series))
	for key, bar := range payload.Series {
		ts, err := time.Parse(alphaVantageTimeLayout, key)
		if err != nil {
			continue // skip unparseable bar keys
		}
		closePrice, err := parseDecimalField(bar.Close)
		if err != nil {
			continue
		}
		bars = append(bars, intradayBar{
			TimestampMillis: ts.UnixMilli(),
			Close:           closePrice,
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: intraday series had no usable bars", models.ErrMalformedPayload)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].TimestampMillis < bars[j].TimestampMillis })
	return bars, nil
}

// get performs the HTTP request and returns the response body.
func (p *AlphaVantageProvider) get(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/query?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", models.ErrProviderUnavailable, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", models.ErrProviderUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", models.ErrProviderUnavailable, resp.StatusCode)
	}
	return body, nil
}

// parseDecimalField parses a string-encoded number from a provider payload.
func parseDecimalField(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty numeric field", models.ErrMalformedPayload)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: parse %q: %v", models.ErrMalformedPayload, s, err)
	}
	return d.InexactFloat64(), nil
}
