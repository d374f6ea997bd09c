package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"main/internal/engine"
	"main/internal/errors"
	"main/internal/market"
	"main/internal/model/enum"
	"main/pkg/exception"
)

type apiError struct {
	Error string `json:"error"`
	Ref   string `json:"ref,omitempty"`
}

type orderRequest struct {
	Symbol   string          `json:"symbol"`
	Side     string          `json:"side"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type orderResponse struct {
	Balance   decimal.Decimal `json:"balance"`
	OrderID   uint64          `json:"order_id"`
	Timestamp string          `json:"timestamp"`
}

func (s *Server) owner(c *gin.Context) (string, bool) {
	owner := c.GetHeader(ownerHeader)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, apiError{Error: "identity required"})
		return "", false
	}
	return owner, true
}

// GET /api/portfolio
func (s *Server) getPortfolio(c *gin.Context) {
	owner, ok := s.owner(c)
	if !ok {
		return
	}

	snapshot, err := s.engine.PortfolioSnapshot(c.Request.Context(), owner)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// POST /api/orders
func (s *Server) postOrder(c *gin.Context) {
	owner, ok := s.owner(c)
	if !ok {
		return
	}

	var body orderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Error: "malformed order payload"})
		return
	}

	result, err := s.engine.ExecuteOrder(c.Request.Context(), engine.Request{
		Owner:    owner,
		Symbol:   body.Symbol,
		Side:     enum.Side(body.Side),
		Quantity: body.Quantity,
		Price:    body.Price,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, orderResponse{
		Balance:   result.Balance,
		OrderID:   result.OrderID,
		Timestamp: result.Timestamp.Format(time.RFC3339Nano),
	})
}

// GET /api/forecast?symbol=GP
func (s *Server) getForecast(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, apiError{Error: "missing 'symbol' query parameter"})
		return
	}

	series, err := s.market.History(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apiError{Error: "market data unavailable", Ref: c.GetString(requestIDKey)})
		return
	}

	forecast, ok := market.ForecastSeries(series)
	if !ok {
		c.JSON(http.StatusBadRequest, apiError{Error: "insufficient history to forecast"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"forecast": forecast,
		"history":  series,
	})
}

// GET /api/symbols
func (s *Server) getSymbols(c *gin.Context) {
	listings := market.Listings()
	c.JSON(http.StatusOK, gin.H{"stocks": listings, "total": len(listings)})
}

// writeError maps the ledger error taxonomy onto HTTP statuses: business
// rejections surface verbatim with 400, storage failures stay opaque.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, exception.ErrInvalidRequest),
		errors.Is(err, exception.ErrInsufficientFunds),
		errors.Is(err, exception.ErrInsufficientShares),
		errors.Is(err, exception.ErrNoSuchHolding):
		c.JSON(http.StatusBadRequest, apiError{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, apiError{
			Error: "internal storage failure",
			Ref:   c.GetString(requestIDKey),
		})
	}
}
