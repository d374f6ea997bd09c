package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/engine"
	"main/internal/market"
	"main/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	eng := engine.New(store.NewMemory(decimal.RequireFromString("100000.00")))
	provider := market.NewProvider(60, time.Minute)
	return NewServer(eng, provider, "*")
}

func doJSON(t *testing.T, s *Server, method, path, owner, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if owner != "" {
		req.Header.Set(ownerHeader, owner)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPortfolioRequiresIdentity(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/portfolio", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPortfolioSeedsAccountOnFirstLoad(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/portfolio", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Owner   string          `json:"owner"`
		Balance decimal.Decimal `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "alice", payload.Owner)
	assert.Equal(t, "100000.00", payload.Balance.StringFixed(2))
}

func TestPostOrderHappyPath(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/orders", "alice",
		`{"symbol":"GP","side":"BUY","quantity":10,"price":245.50}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		Balance decimal.Decimal `json:"balance"`
		OrderID uint64          `json:"order_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "97545.00", payload.Balance.StringFixed(2))
	assert.NotZero(t, payload.OrderID)
}

func TestPostOrderMalformedBody(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/orders", "alice", `{"symbol":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostOrderBusinessRejection(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/orders", "alice",
		`{"symbol":"GP","side":"SELL","quantity":5,"price":100.00}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var payload struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload.Error, "no holding")
}

func TestPostOrderInvalidSide(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/orders", "alice",
		`{"symbol":"GP","side":"HOLD","quantity":5,"price":100.00}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForecastFallsBackToSynthetic(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/forecast?symbol=GP", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Forecast market.Forecast `json:"forecast"`
		History  market.Series   `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, market.SourceSynthetic, payload.Forecast.Source)
	assert.Equal(t, market.SourceSynthetic, payload.History.Source)
	assert.NotEmpty(t, payload.History.Points)
}

func TestForecastRequiresSymbol(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/forecast", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSymbols(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/symbols", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Stocks []market.Listing `json:"stocks"`
		Total  int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, len(payload.Stocks), payload.Total)
	assert.NotEmpty(t, payload.Stocks)
}

func TestRequestIDPropagated(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", "", "")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/portfolio", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
