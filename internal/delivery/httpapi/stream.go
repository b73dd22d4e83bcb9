package httpapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StreamSpread handles GET /spread/:currency/:market/stream. It validates the
// market once, upgrades the connection, and pushes a fresh spread reading
// every poll interval until the client goes away.
func (h *Handlers) StreamSpread(c *gin.Context) {
	currency, market, err := h.spreads.ResolveMarket(c.Request.Context(), c.Param("currency"), c.Param("market"), false)
	if err != nil {
		h.renderError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Drain incoming frames so close messages from the client are seen.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	marketID := currency + "-" + market
	h.logger.Info("spread stream open", zap.String("market", marketID))
	defer h.logger.Info("spread stream closed", zap.String("market", marketID))

	ticker := time.NewTicker(h.streamInterval)
	defer ticker.Stop()

	for {
		reading, err := h.spreads.ResolvedMarketSpread(ctx, currency, market)
		if err != nil {
			h.logger.Warn("spread stream fetch failed", zap.String("market", marketID), zap.Error(err))
			return
		}
		if err := conn.WriteJSON(mapReading(*reading)); err != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
