// Package service implements coin market cap comparison on top of a
// market data provider.
package service

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blitzfun/blitz-api/internal/metrics"
	"github.com/blitzfun/blitz-api/pkg/app/errors"
	"github.com/blitzfun/blitz-api/pkg/coins"
)

// tieThreshold is the absolute market cap increase difference, in USDC,
// below which two coins are considered tied.
var tieThreshold = decimal.NewFromFloat(0.01)

// Provider fetches coin market data. Implemented by the zora client.
type Provider interface {
	GetCoin(ctx context.Context, address string, chainID int) (*coins.Coin, error)
	GetCoinSwaps(ctx context.Context, address string, chainID, first int) ([]coins.Swap, error)
	GetProfile(ctx context.Context, identifier string) (*coins.Profile, error)
	GetCreatorCoins(ctx context.Context, identifier string, count int) ([]coins.CreatorCoin, error)
}

// Service compares coin market cap growth between two coins over a window
// starting at a given time.
type Service interface {
	Compare(ctx context.Context, coin1, coin2 string, startTime time.Time, chainID int) (*coins.ComparisonResult, error)
	CreatorProfile(ctx context.Context, identifier string) (*coins.Profile, error)
	CreatorCoins(ctx context.Context, identifier string, count int) ([]coins.CreatorCoin, error)
}

type service struct {
	provider     Provider
	swapPageSize int
	logger       *zap.Logger
}

// NewService returns a comparison service backed by provider. swapPageSize
// bounds how many recent swaps are scanned when approximating a historical
// market cap.
func NewService(provider Provider, swapPageSize int, logger *zap.Logger) Service {
	return &service{
		provider:     provider,
		swapPageSize: swapPageSize,
		logger:       logger,
	}
}

func (s *service) Compare(ctx context.Context, coin1, coin2 string, startTime time.Time, chainID int) (*coins.ComparisonResult, error) {
	start := time.Now()
	defer func() {
		metrics.CoinComparisonDuration.Observe(time.Since(start).Seconds())
	}()

	var current1, current2 *coins.Coin
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current1, err = s.provider.GetCoin(gctx, coin1, chainID)
		return err
	})
	g.Go(func() error {
		var err error
		current2, err = s.provider.GetCoin(gctx, coin2, chainID)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.CoinComparisons.WithLabelValues("provider_error").Inc()
		return nil, errors.DependencyFailureError(err, "Failed to fetch current coin data")
	}

	// Historical lookups degrade to a zero baseline on failure instead of
	// aborting the comparison.
	var hist1, hist2 decimal.Decimal
	hg, hctx := errgroup.WithContext(ctx)
	hg.Go(func() error {
		hist1 = s.historicalMarketCap(hctx, current1, chainID, startTime)
		return nil
	})
	hg.Go(func() error {
		hist2 = s.historicalMarketCap(hctx, current2, chainID, startTime)
		return nil
	})
	_ = hg.Wait()

	m1 := buildMetrics(current1, hist1)
	m2 := buildMetrics(current2, hist2)

	inc1 := current1.MarketCap.Sub(hist1)
	inc2 := current2.MarketCap.Sub(hist2)

	result := &coins.ComparisonResult{
		Coin1:           m1,
		Coin2:           m2,
		ComparisonScore: score(inc1, inc2),
		Winner:          winner(inc1, inc2),
	}

	metrics.CoinComparisons.WithLabelValues("ok").Inc()
	return result, nil
}

// historicalMarketCap approximates the market cap of coin at target by
// scanning its most recent swaps for the one closest in time and scaling
// that swap's price by total supply. Returns zero when no priced swap is
// available.
func (s *service) historicalMarketCap(ctx context.Context, coin *coins.Coin, chainID int, target time.Time) decimal.Decimal {
	swaps, err := s.provider.GetCoinSwaps(ctx, coin.Address, chainID, s.swapPageSize)
	if err != nil {
		s.logger.Warn("Failed to fetch swaps for historical market cap",
			zap.String("address", coin.Address),
			zap.Error(err),
		)
		return decimal.Zero
	}

	var nearest *coins.Swap
	var nearestDelta time.Duration
	for i := range swaps {
		if swaps[i].PriceUsdc == nil {
			continue
		}
		delta := swaps[i].BlockTime.Sub(target)
		if delta < 0 {
			delta = -delta
		}
		if nearest == nil || delta < nearestDelta {
			nearest = &swaps[i]
			nearestDelta = delta
		}
	}

	if nearest == nil {
		s.logger.Warn("No priced swap found near start time",
			zap.String("address", coin.Address),
			zap.Time("startTime", target),
			zap.Error(coins.ErrNoHistoricalPrice),
		)
		return decimal.Zero
	}

	return nearest.PriceUsdc.Mul(coin.TotalSupply)
}

func buildMetrics(coin *coins.Coin, historical decimal.Decimal) coins.CoinMetrics {
	increase := coin.MarketCap.Sub(historical)

	var pct float64
	if historical.IsPositive() {
		pct, _ = increase.Div(historical).Mul(decimal.NewFromInt(100)).Float64()
	}

	return coins.CoinMetrics{
		Address:               coin.Address,
		Symbol:                coin.Symbol,
		Name:                  coin.Name,
		StartMarketCap:        historical.StringFixed(2),
		CurrentMarketCap:      coin.MarketCap.StringFixed(2),
		MarketCapIncreaseUsdc: increase.StringFixed(2),
		PercentageIncrease:    pct,
	}
}

// score is the ratio of coin1's increase to coin2's. When coin2 did not
// grow, a growing coin1 scores infinity and a flat one scores 1.
func score(inc1, inc2 decimal.Decimal) coins.Score {
	if inc2.IsPositive() {
		ratio, _ := inc1.Div(inc2).Float64()
		return coins.Score(ratio)
	}
	if inc1.IsPositive() {
		return coins.Score(math.Inf(1))
	}
	return coins.Score(1)
}

func winner(inc1, inc2 decimal.Decimal) coins.Winner {
	if inc1.Sub(inc2).Abs().LessThan(tieThreshold) {
		return coins.WinnerTie
	}
	if inc1.GreaterThan(inc2) {
		return coins.WinnerCoin1
	}
	return coins.WinnerCoin2
}

func (s *service) CreatorProfile(ctx context.Context, identifier string) (*coins.Profile, error) {
	profile, err := s.provider.GetProfile(ctx, identifier)
	if err != nil {
		return nil, errors.DependencyFailureError(err, "Failed to fetch creator profile")
	}
	return profile, nil
}

func (s *service) CreatorCoins(ctx context.Context, identifier string, count int) ([]coins.CreatorCoin, error) {
	creatorCoins, err := s.provider.GetCreatorCoins(ctx, identifier, count)
	if err != nil {
		return nil, errors.DependencyFailureError(err, "Failed to fetch creator coins")
	}
	return creatorCoins, nil
}
