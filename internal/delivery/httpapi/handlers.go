package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/tschirnhausen/desafio-buda/internal/domain"
	"github.com/tschirnhausen/desafio-buda/internal/usecase"
	"go.uber.org/zap"
)

type Handlers struct {
	spreads        *usecase.SpreadUsecase
	alerts         *usecase.AlertUsecase
	logger         *zap.Logger
	upgrader       websocket.Upgrader
	streamInterval time.Duration
}

func NewHandlers(spreads *usecase.SpreadUsecase, alerts *usecase.AlertUsecase, streamInterval time.Duration, logger *zap.Logger) *Handlers {
	return &Handlers{
		spreads:        spreads,
		alerts:         alerts,
		logger:         logger,
		upgrader:       websocket.Upgrader{},
		streamInterval: streamInterval,
	}
}

type spreadReadingResponse struct {
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Spread float64 `json:"spread"`
	Market string  `json:"market"`
}

func mapReading(reading domain.SpreadReading) spreadReadingResponse {
	return spreadReadingResponse{
		Bid:    reading.Bid.InexactFloat64(),
		Ask:    reading.Ask.InexactFloat64(),
		Spread: reading.Spread.InexactFloat64(),
		Market: reading.Market,
	}
}

// GetSpread handles GET /spread/:currency/:market/.
func (h *Handlers) GetSpread(c *gin.Context) {
	currency := c.Param("currency")
	market := c.Param("market")

	reading, err := h.spreads.MarketSpread(c.Request.Context(), currency, market)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"spread": reading.Spread.InexactFloat64(),
		"market": reading.Market,
	})
}

// GetAllSpreads handles GET /spreads/.
func (h *Handlers) GetAllSpreads(c *gin.Context) {
	readings, err := h.spreads.AllMarketSpreads(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	response := make([]spreadReadingResponse, 0, len(readings))
	for _, reading := range readings {
		response = append(response, mapReading(reading))
	}
	c.JSON(http.StatusOK, response)
}

type createAlertRequest struct {
	Type     string  `json:"type" binding:"required"`
	Currency string  `json:"currency" binding:"required"`
	Market   string  `json:"market" binding:"required"`
	Spread   float64 `json:"spread" binding:"required"`
}

// CreateAlert handles POST /alert/.
func (h *Handlers) CreateAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid alert payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert payload"})
		return
	}

	alert, err := h.alerts.CreateAlert(c.Request.Context(), req.Type, req.Currency, req.Market, decimal.NewFromFloat(req.Spread))
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.logger.Info("alert created",
		zap.Uint("alert_id", alert.ID),
		zap.String("market", alert.MarketID()),
		zap.String("type", string(alert.Direction)),
	)
	c.JSON(http.StatusOK, gin.H{"status": "created", "alert_id": alert.ID})
}

type alertData struct {
	ID           uint    `json:"id"`
	Market       string  `json:"market"`
	TargetSpread float64 `json:"target_spread"`
	Type         string  `json:"type"`
}

func mapAlert(alert domain.Alert) alertData {
	return alertData{
		ID:           alert.ID,
		Market:       alert.MarketID(),
		TargetSpread: alert.TargetSpread.InexactFloat64(),
		Type:         string(alert.Direction),
	}
}

// GetAlert handles GET /alert/:id/.
func (h *Handlers) GetAlert(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}

	alert, status, err := h.alerts.AlertStatus(c.Request.Context(), uint(id))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alert_data": mapAlert(*alert),
		"status":     string(status),
	})
}

// ListAlerts handles GET /alerts/.
func (h *Handlers) ListAlerts(c *gin.Context) {
	alerts, err := h.alerts.ListAlerts(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	response := make([]alertData, 0, len(alerts))
	for _, alert := range alerts {
		response = append(response, mapAlert(alert))
	}
	c.JSON(http.StatusOK, gin.H{"alerts": response, "count": len(response)})
}

// Health handles GET /health.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidMarket):
		c.JSON(http.StatusBadRequest, gin.H{"error": "market does not exist"})
	case errors.Is(err, usecase.ErrInvalidAlert):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert: check that the market exists and the spread is positive"})
	case errors.Is(err, usecase.ErrAlertNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
	case errors.Is(err, domain.ErrExchangeUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "exchange unavailable"})
	case errors.Is(err, domain.ErrInvalidResponse):
		c.JSON(http.StatusBadGateway, gin.H{"error": "invalid exchange response"})
	default:
		h.logger.Warn("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
