package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tschirnhausen/desafio-buda/internal/domain"
	"github.com/tschirnhausen/desafio-buda/internal/usecase"
	"go.uber.org/zap"
)

type stubExchange struct {
	markets []domain.Market
	tickers map[string]domain.Ticker
}

func (s *stubExchange) ListMarkets(ctx context.Context) ([]domain.Market, error) {
	return s.markets, nil
}

func (s *stubExchange) GetTicker(ctx context.Context, currency, market string) (*domain.Ticker, error) {
	ticker, ok := s.tickers[currency+"-"+market]
	if !ok {
		return nil, domain.ErrInvalidResponse
	}
	return &ticker, nil
}

type stubAlertRepo struct {
	alerts map[uint]domain.Alert
	nextID uint
}

func (r *stubAlertRepo) Create(ctx context.Context, alert *domain.Alert) error {
	r.nextID++
	alert.ID = r.nextID
	r.alerts[alert.ID] = *alert
	return nil
}

func (r *stubAlertRepo) GetByID(ctx context.Context, alertID uint) (*domain.Alert, error) {
	alert, ok := r.alerts[alertID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &alert, nil
}

func (r *stubAlertRepo) List(ctx context.Context) ([]domain.Alert, error) {
	alerts := make([]domain.Alert, 0, len(r.alerts))
	for _, alert := range r.alerts {
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

func amount(value string) domain.Amount {
	return domain.Amount{Value: decimal.RequireFromString(value), Currency: "CLP"}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	exchange := &stubExchange{
		markets: []domain.Market{
			{ID: "BTC-CLP", Name: "btc-clp", BaseCurrency: "BTC", QuoteCurrency: "CLP"},
			{ID: "ETH-CLP", Name: "eth-clp", BaseCurrency: "ETH", QuoteCurrency: "CLP"},
		},
		tickers: map[string]domain.Ticker{
			"btc-clp": {MarketID: "BTC-CLP", MaxBid: amount("100.00"), MinAsk: amount("100.25")},
			"eth-clp": {MarketID: "ETH-CLP", MaxBid: amount("50.00"), MinAsk: amount("50.10")},
		},
	}
	repo := &stubAlertRepo{alerts: make(map[uint]domain.Alert)}

	logger := zap.NewNop()
	spreadUC := usecase.NewSpreadUsecase(exchange, logger)
	alertUC := usecase.NewAlertUsecase(repo, spreadUC)
	return NewRouter(NewHandlers(spreadUC, alertUC, time.Second, logger), logger)
}

func doRequest(t *testing.T, router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var request *http.Request
	if body != nil {
		request = httptest.NewRequest(method, path, bytes.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
	} else {
		request = httptest.NewRequest(method, path, nil)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body %q: %v", recorder.Body.String(), err)
	}
	return body
}

func TestGetSpread(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(t, router, http.MethodGet, "/spread/BTC/CLP/", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	body := decodeBody(t, recorder)
	if body["market"] != "btc-clp" {
		t.Errorf("expected market btc-clp, got %v", body["market"])
	}
	if body["spread"] != 0.25 {
		t.Errorf("expected spread 0.25, got %v", body["spread"])
	}
}

func TestGetSpreadUnknownMarket(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(t, router, http.MethodGet, "/spread/btc/dog/", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", recorder.Code)
	}
}

func TestGetAllSpreads(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(t, router, http.MethodGet, "/spreads/", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var readings []map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &readings); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(readings) != 2 {
		t.Errorf("expected 2 readings, got %d", len(readings))
	}
}

func TestCreateAlert(t *testing.T) {
	router := newTestRouter(t)

	payload := []byte(`{"type": "above", "currency": "btc", "market": "clp", "spread": 50000}`)
	recorder := doRequest(t, router, http.MethodPost, "/alert/", payload)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	body := decodeBody(t, recorder)
	if body["status"] != "created" {
		t.Errorf("expected status created, got %v", body["status"])
	}
	if body["alert_id"] != float64(1) {
		t.Errorf("expected alert_id 1, got %v", body["alert_id"])
	}
}

func TestCreateAlertInvalidPayload(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name    string
		payload string
	}{
		{"missing fields", `{"type": "above"}`},
		{"unknown market", `{"type": "above", "currency": "cat", "market": "dog", "spread": 100}`},
		{"negative spread", `{"type": "above", "currency": "btc", "market": "clp", "spread": -5}`},
		{"unknown direction", `{"type": "sideways", "currency": "btc", "market": "clp", "spread": 100}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doRequest(t, router, http.MethodPost, "/alert/", []byte(tt.payload))
			if recorder.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", recorder.Code)
			}
		})
	}
}

func TestGetAlert(t *testing.T) {
	router := newTestRouter(t)

	// Current btc-clp spread is 0.25, so an "under 50000" alert is fulfilled.
	payload := []byte(`{"type": "under", "currency": "BTC", "market": "CLP", "spread": 50000}`)
	created := doRequest(t, router, http.MethodPost, "/alert/", payload)
	if created.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", created.Code)
	}

	recorder := doRequest(t, router, http.MethodGet, "/alert/1/", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	body := decodeBody(t, recorder)
	if body["status"] != "fulfill" {
		t.Errorf("expected status fulfill, got %v", body["status"])
	}
	alertData, ok := body["alert_data"].(map[string]any)
	if !ok {
		t.Fatalf("missing alert_data in %v", body)
	}
	if alertData["id"] != float64(1) {
		t.Errorf("expected id 1, got %v", alertData["id"])
	}
	if alertData["market"] != "btc-clp" {
		t.Errorf("expected market btc-clp, got %v", alertData["market"])
	}
	if alertData["target_spread"] != float64(50000) {
		t.Errorf("expected target_spread 50000, got %v", alertData["target_spread"])
	}
	if alertData["type"] != "under" {
		t.Errorf("expected type under, got %v", alertData["type"])
	}
}

func TestGetAlertUnknownID(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/alert/999/", "/alert/-1/"} {
		recorder := doRequest(t, router, http.MethodGet, path, nil)
		if recorder.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, recorder.Code)
		}
	}
}

func TestListAlerts(t *testing.T) {
	router := newTestRouter(t)

	payload := []byte(`{"type": "above", "currency": "btc", "market": "clp", "spread": 100}`)
	doRequest(t, router, http.MethodPost, "/alert/", payload)
	doRequest(t, router, http.MethodPost, "/alert/", payload)

	recorder := doRequest(t, router, http.MethodGet, "/alerts/", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	body := decodeBody(t, recorder)
	if body["count"] != float64(2) {
		t.Errorf("expected count 2, got %v", body["count"])
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(t, router, http.MethodGet, "/health", nil)
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", recorder.Code)
	}
}
