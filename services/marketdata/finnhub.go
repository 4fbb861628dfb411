package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stock_tracker_backend/models"
)

// FinnhubProvider fetches quotes and candles from a Finnhub-compatible API.
// It is the secondary provider in the fallback chain.
type FinnhubProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewFinnhubProvider creates a provider against the given base URL.
func NewFinnhubProvider(baseURL, apiKey string, timeout time.Duration) *FinnhubProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FinnhubProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *FinnhubProvider) Name() string { return "finnhub" }

// finnhubQuoteResponse mirrors the /quote payload.
type finnhubQuoteResponse struct {
	Current       float64 `json:"c"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	Timestamp     int64   `json:"t"`
}

// finnhubCandleResponse mirrors the /stock/candle payload: parallel arrays of
// closes and unix-second timestamps.
type finnhubCandleResponse struct {
	Closes     []float64 `json:"c"`
	Volumes    []float64 `json:"v"`
	Timestamps []int64   `json:"t"`
	Status     string    `json:"s"`
}

// FetchQuote fetches the current quote for symbol.
func (p *FinnhubProvider) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	body, err := p.get(ctx, "/quote", url.Values{
		"symbol": {symbol},
		"token":  {p.apiKey},
	})
	if err != nil {
		return models.Quote{}, err
	}

	var payload finnhubQuoteResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.Quote{}, fmt.Errorf("%w: decode quote: %v", models.ErrMalformedPayload, err)
	}
	if payload.Current <= 0 {
		return models.Quote{}, fmt.Errorf("%w: quote response missing current price", models.ErrMalformedPayload)
	}

	ts := payload.Timestamp * 1000
	if ts <= 0 {
		ts = time.Now().UnixMilli()
	}
	return models.Quote{
		Symbol:          symbol,
		Price:           payload.Current,
		TimestampMillis: ts,
		ChangePercent:   payload.ChangePercent,
		High:            payload.High,
		Low:             payload.Low,
		Open:            payload.Open,
	}, nil
}

// FetchIntraday fetches recent 1-minute candles for symbol, ascending by time.
func (p *FinnhubProvider) FetchIntraday(ctx context.Context, symbol string) ([]intradayBar, error) {
	now := time.Now()
	body, err := p.get(ctx, "/stock/candle", url.Values{
		"symbol":     {symbol},
		"resolution": {"1"},
		"from":       {fmt.Sprintf("%d", now.Add(-2*time.Hour).Unix())},
		"to":         {fmt.Sprintf("%d", now.Unix())},
		"token":      {p.apiKey},
	})
	if err != nil {
		return nil, err
	}

	var payload finnhubCandleResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode candles: %v", models.ErrMalformedPayload, err)
	}
	if payload.Status != "ok" || len(payload.Closes) == 0 || len(payload.Closes) != len(payload.Timestamps) {
		return nil, fmt.Errorf("%w: candle response status %q", models.ErrMalformedPayload, payload.Status)
	}

	bars := make([]intradayBar, 0, len(payload.Closes))
	for i, closePrice := range payload.Closes {
		bars = append(bars, intradayBar{
			TimestampMillis: payload.Timestamps[i] * 1000,
			Close:           closePrice,
		})
	}
	return bars, nil
}

// get performs the HTTP request and returns the response body.
func (p *FinnhubProvider) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s?%s", p.baseURL, path, params.Encode())
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
