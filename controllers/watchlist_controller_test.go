package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stock_tracker_backend/routes"
	"stock_tracker_backend/services/marketdata"
	"stock_tracker_backend/services/predictor"
	"stock_tracker_backend/services/stream"
	"stock_tracker_backend/services/tracker"

	"github.com/gin-gonic/gin"
)

// setupRouter wires the full pipeline in mock-data mode behind the API.
func setupRouter(t *testing.T) (*gin.Engine, *tracker.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	source := marketdata.NewService(nil, true)
	trk := tracker.NewService(source, predictor.New(), tracker.Config{
		RefreshInterval:    time.Hour,
		SeriesPoints:       10,
		PredictionsEnabled: true,
	})
	t.Cleanup(trk.Stop)

	hub := stream.NewHub()
	t.Cleanup(hub.Shutdown)

	router := gin.New()
	routes.SetupRoutes(router, trk, hub)
	return router, trk
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAddAndListWatchlist(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/watchlist", `{"symbol": "AAPL"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d, want 201", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/api/v1/watchlist", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", w.Code)
	}

	var resp struct {
		Data []struct {
			Symbol string `json:"symbol"`
		} `json:"data"`
		PredictionsEnabled bool `json:"predictions_enabled"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Symbol != "AAPL" {
		t.Errorf("unexpected watchlist: %+v", resp.Data)
	}
	if !resp.PredictionsEnabled {
		t.Error("expected predictions enabled")
	}
}

func TestAddDuplicateSymbolConflict(t *testing.T) {
	router, _ := setupRouter(t)

	doRequest(router, http.MethodPost, "/api/v1/watchlist", `{"symbol": "AAPL"}`)
	w := doRequest(router, http.MethodPost, "/api/v1/watchlist", `{"symbol": "aapl"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate add status = %d, want 409", w.Code)
	}
}

func TestAddSymbolBadBody(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/watchlist", `{"ticker": "AAPL"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRemoveSymbolIdempotent(t *testing.T) {
	router, _ := setupRouter(t)

	doRequest(router, http.MethodPost, "/api/v1/watchlist", `{"symbol": "AAPL"}`)

	w := doRequest(router, http.MethodDelete, "/api/v1/watchlist/AAPL", "")
	if w.Code != http.StatusOK {
		t.Fatalf("remove status = %d, want 200", w.Code)
	}
	// Removing an untracked symbol still succeeds.
	w = doRequest(router, http.MethodDelete, "/api/v1/watchlist/AAPL", "")
	if w.Code != http.StatusOK {
		t.Fatalf("second remove status = %d, want 200", w.Code)
	}
}

func TestGetUntrackedSymbolNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/watchlist/MSFT", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestSetPredictions(t *testing.T) {
	router, trk := setupRouter(t)

	w := doRequest(router, http.MethodPut, "/api/v1/settings/predictions", `{"enabled": false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if trk.PredictionsEnabled() {
		t.Error("expected predictions disabled")
	}

	w = doRequest(router, http.MethodPut, "/api/v1/settings/predictions", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing enabled field status = %d, want 400", w.Code)
	}
}
