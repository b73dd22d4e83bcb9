package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/tschirnhausen/desafio-buda/internal/domain"
	"go.uber.org/zap"
)

var ErrInvalidMarket = errors.New("market does not exist")

type SpreadUsecase struct {
	exchange domain.ExchangeClient
	logger   *zap.Logger
}

func NewSpreadUsecase(exchange domain.ExchangeClient, logger *zap.Logger) *SpreadUsecase {
	return &SpreadUsecase{exchange: exchange, logger: logger}
}

// ResolveMarket lower-cases both components and, unless skipValidation is
// set, checks {currency}-{market} against the live market listing. Skipping
// validation performs no network call; callers use it when the pair came
// from the exchange's own listing.
func (u *SpreadUsecase) ResolveMarket(ctx context.Context, currency, market string, skipValidation bool) (string, string, error) {
	currency, market = strings.ToLower(currency), strings.ToLower(market)
	if skipValidation {
		return currency, market, nil
	}

	markets, err := u.exchange.ListMarkets(ctx)
	if err != nil {
		return "", "", err
	}

	marketID := currency + "-" + market
	for _, m := range markets {
		if strings.ToLower(m.ID) == marketID {
			return currency, market, nil
		}
	}
	return "", "", ErrInvalidMarket
}

// MarketSpread resolves and validates the pair, then derives its current
// bid/ask spread.
func (u *SpreadUsecase) MarketSpread(ctx context.Context, currency, market string) (*domain.SpreadReading, error) {
	return u.spreadFor(ctx, currency, market, false)
}

// ResolvedMarketSpread derives the spread for a pair the caller already
// resolved and validated, skipping the listing round trip.
func (u *SpreadUsecase) ResolvedMarketSpread(ctx context.Context, currency, market string) (*domain.SpreadReading, error) {
	return u.spreadFor(ctx, currency, market, true)
}

func (u *SpreadUsecase) spreadFor(ctx context.Context, currency, market string, skipValidation bool) (*domain.SpreadReading, error) {
	currency, market, err := u.ResolveMarket(ctx, currency, market, skipValidation)
	if err != nil {
		return nil, err
	}

	ticker, err := u.exchange.GetTicker(ctx, currency, market)
	if err != nil {
		return nil, err
	}

	bid := ticker.MaxBid.Value
	ask := ticker.MinAsk.Value
	// Bid can transiently exceed ask in a fast market; a negative spread is
	// reported as-is.
	return &domain.SpreadReading{
		Market: currency + "-" + market,
		Bid:    bid,
		Ask:    ask,
		Spread: ask.Sub(bid).Round(2),
	}, nil
}

// AllMarketSpreads lists every market once and derives each spread with
// validation skipped. A market whose ticker fetch fails is logged and
// omitted rather than aborting the batch.
func (u *SpreadUsecase) AllMarketSpreads(ctx context.Context) ([]domain.SpreadReading, error) {
	markets, err := u.exchange.ListMarkets(ctx)
	if err != nil {
		return nil, err
	}

	readings := make([]domain.SpreadReading, 0, len(markets))
	for _, market := range markets {
		reading, err := u.spreadFor(ctx, market.BaseCurrency, market.QuoteCurrency, true)
		if err != nil {
			u.logger.Warn("spread computation failed", zap.String("market", market.ID), zap.Error(err))
			continue
		}
		readings = append(readings, *reading)
	}
	return readings, nil
}
