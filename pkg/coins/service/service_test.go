package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/blitzfun/blitz-api/pkg/app/errors"
	"github.com/blitzfun/blitz-api/pkg/coins"
)

const (
	addr1 = "0xc0ffee0000000000000000000000000000000001"
	addr2 = "0xc0ffee0000000000000000000000000000000002"
)

var startTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testCoin(address, symbol string, marketCap, totalSupply float64) *coins.Coin {
	return &coins.Coin{
		Address:     address,
		Symbol:      symbol,
		Name:        symbol + " Coin",
		TotalSupply: decimal.NewFromFloat(totalSupply),
		MarketCap:   decimal.NewFromFloat(marketCap),
	}
}

func pricedSwap(at time.Time, price float64) coins.Swap {
	p := decimal.NewFromFloat(price)
	return coins.Swap{BlockTime: at, PriceUsdc: &p}
}

// newComparisonProvider wires a provider where each coin has a fixed current
// market cap and a single priced swap near startTime. Historical market cap
// is swap price times total supply; total supply is fixed at 1000, so a
// price of 0.1 yields a 100 baseline.
func newComparisonProvider(cap1, price1, cap2, price2 float64) *mockProvider {
	return &mockProvider{
		getCoinFn: func(_ context.Context, address string, _ int) (*coins.Coin, error) {
			if address == addr1 {
				return testCoin(addr1, "ONE", cap1, 1000), nil
			}
			return testCoin(addr2, "TWO", cap2, 1000), nil
		},
		getCoinSwapsFn: func(_ context.Context, address string, _, _ int) ([]coins.Swap, error) {
			price := price1
			if address == addr2 {
				price = price2
			}
			return []coins.Swap{pricedSwap(startTime.Add(time.Minute), price)}, nil
		},
	}
}

func newService(p Provider) Service {
	return NewService(p, 100, zap.NewNop())
}

func TestCompare_Coin1Wins(t *testing.T) {
	// coin1: 100 -> 200 (+100), coin2: 100 -> 150 (+50).
	svc := newService(newComparisonProvider(200, 0.1, 150, 0.1))

	result, err := svc.Compare(context.Background(), addr1, addr2, startTime, 8453)
	require.NoError(t, err)

	assert.Equal(t, coins.WinnerCoin1, result.Winner)
	assert.InDelta(t, 2.0, float64(result.ComparisonScore), 1e-9)

	assert.Equal(t, "100.00", result.Coin1.StartMarketCap)
	assert.Equal(t, "200.00", result.Coin1.CurrentMarketCap)
	assert.Equal(t, "100.00", result.Coin1.MarketCapIncreaseUsdc)
	assert.InDelta(t, 100.0, result.Coin1.PercentageIncrease, 1e-9)

	assert.Equal(t, "50.00", result.Coin2.MarketCapIncreaseUsdc)
	assert.InDelta(t, 50.0, result.Coin2.PercentageIncrease, 1e-9)
}

func TestCompare_Coin2Wins(t *testing.T) {
	svc := newService(newComparisonProvider(150, 0.1, 300, 0.1))

	result, err := svc.Compare(context.Background(), addr1, addr2, startTime, 8453)
	require.NoError(t, err)

	assert.Equal(t, coins.WinnerCoin2, result.Winner)
	assert.InDelta(t, 0.25, float64(result.ComparisonScore), 1e-9)
}

func TestCompare_TieWithinThreshold(t *testing.T) {
	// Increases of 50.000 and 50.005 differ by less than a cent.
	svc := newService(newComparisonProvider(150, 0.1, 150.005, 0.1))

	result, err := svc.Compare(context.Background(), addr1, addr2, startTime, 8453)
	require.NoError(t, err)

	assert.Equal(t, coins.WinnerTie, result.Winner)
}

func TestCompare_ExactCentDifferenceIsNotTie(t *testing.T) {
	// A difference of exactly 0.01 is a win, not a tie.
	svc := newService(newComparisonProvider(150.01, 0.1, 150, 0.1))

	result, err := svc.Compare(context.Background(), addr1, addr2, startTime, 8453)
	require.NoError(t, err)

	assert.Equal(t, coins.WinnerCoin1, result.Winner)
}

func TestCompare_InfiniteScoreWhenOnlyCoin1Grows(t *testing.T) {
	// coin2 shrinks, coin1 grows.
	svc := newService(newComparisonProvider(200, 0.1, 80, 0.1))

	result, err := svc.Compare(context.Background(), addr1, addr2, startTime, 8453)
	require.NoError(t, err)

	assert.True(t, math.IsInf(float64(result.ComparisonScore), 1))
	assert.Equal(t, coins.WinnerCoin1, result.Winner)
}

func TestCompare_ScoreOneWhenNeitherGrows(t *testing.T) {
	svc := newService(newComparisonProvider(80, 0.1, 90, 0.1))

	result, err := svc.Compare(context.Background(), addr1, addr2, startTime, 8453)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, float64(result.ComparisonScore), 1e-9)
	assert.Equal(t, coins.WinnerCoin2, result.Winner)
}

func TestCompare_ZeroBaselineYieldsZeroPercentage(t *testing.T) {
	provider := newComparisonProvider(200, 0.1, 150, 0.1)
	provider.getCoinSwapsFn = func(_ context.Context, _ string, _, _ int) ([]coins.Swap, error) {
		return nil, nil
	}
	svc := newService(provider)

	result, err := svc.Compare(context.Background(), addr1, addr2, startTime, 8453)
	require.NoError(t, err)

	assert.Equal(t, "0.00", result.Coin1.StartMarketCap)
	assert.Zero(t, result.Coin1.PercentageIncrease)
	assert.Zero(t, result.Coin2.PercentageIncrease)
}

func TestCompare_SwapFetchFailureDegradesToZeroBaseline(t *testing.T) {
	provider := newComparisonProvider(200, 0.1, 150, 0.1)
	provider.getCoinSwapsFn = func(_ context.Context, address string, _, _ int) ([]coins.Swap, error) {
		if address == addr2 {
			return nil, errors.New("upstream timeout")
		}
		return []coins.Swap{pricedSwap(startTime, 0.1)}, nil
	}
	svc := newService(provider)

	result, err := svc.Compare(context.Background(), addr1, addr2, startTime, 8453)
	require.NoError(t, err)

	// coin2's history could not be fetched so its whole market cap counts
	// as increase.
	assert.Equal(t, "0.00", result.Coin2.StartMarketCap)
	assert.Equal(t, "150.00", result.Coin2.MarketCapIncreaseUsdc)
}

func TestCompare_NearestSwapSelected(t *testing.T) {
	provider := newComparisonProvider(200, 0.1, 150, 0.1)
	provider.getCoinSwapsFn = func(_ context.Context, address string, _, _ int) ([]coins.Swap, error) {
		if address != addr1 {
			return []coins.Swap{pricedSwap(startTime, 0.1)}, nil
		}
		return []coins.Swap{
			pricedSwap(startTime.Add(-2*time.Hour), 0.5),
			pricedSwap(startTime.Add(5*time.Minute), 0.05),
			pricedSwap(startTime.Add(3*time.Hour), 0.9),
		}, nil
	}
	svc := newService(provider)

	result, err := svc.Compare(context.Background(), addr1, addr2, startTime, 8453)
	require.NoError(t, err)

	// 0.05 * 1000 supply
	assert.Equal(t, "50.00", result.Coin1.StartMarketCap)
}

func TestCompare_UnpricedSwapsSkipped(t *testing.T) {
	provider := newComparisonProvider(200, 0.1, 150, 0.1)
	provider.getCoinSwapsFn = func(_ context.Context, address string, _, _ int) ([]coins.Swap, error) {
		if address != addr1 {
			return []coins.Swap{pricedSwap(startTime, 0.1)}, nil
		}
		return []coins.Swap{
			{BlockTime: startTime},
			pricedSwap(startTime.Add(time.Hour), 0.08),
		}, nil
	}
	svc := newService(provider)

	result, err := svc.Compare(context.Background(), addr1, addr2, startTime, 8453)
	require.NoError(t, err)

	assert.Equal(t, "80.00", result.Coin1.StartMarketCap)
}

func TestCompare_CurrentFetchFailureAborts(t *testing.T) {
	provider := newComparisonProvider(200, 0.1, 150, 0.1)
	provider.getCoinFn = func(_ context.Context, address string, _ int) (*coins.Coin, error) {
		if address == addr2 {
			return nil, coins.ErrNoCoinData
		}
		return testCoin(addr1, "ONE", 200, 1000), nil
	}
	svc := newService(provider)

	_, err := svc.Compare(context.Background(), addr1, addr2, startTime, 8453)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDependencyFailure), "expected dependency failure, got: %v", err)
}

func TestScoreJSON_Infinity(t *testing.T) {
	svc := newService(newComparisonProvider(200, 0.1, 80, 0.1))

	result, err := svc.Compare(context.Background(), addr1, addr2, startTime, 8453)
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"comparisonScore":"Infinity"`)
}

func TestCreatorCoins(t *testing.T) {
	provider := &mockProvider{
		getCreatorCoinsFn: func(_ context.Context, identifier string, count int) ([]coins.CreatorCoin, error) {
			assert.Equal(t, "creator.eth", identifier)
			assert.Equal(t, 10, count)
			return []coins.CreatorCoin{{Address: addr1, Symbol: "ONE"}}, nil
		},
	}
	svc := newService(provider)

	result, err := svc.CreatorCoins(context.Background(), "creator.eth", 10)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "ONE", result[0].Symbol)
}

func TestCreatorProfile_ProviderError(t *testing.T) {
	provider := &mockProvider{
		getProfileFn: func(_ context.Context, _ string) (*coins.Profile, error) {
			return nil, errors.New("upstream down")
		},
	}
	svc := newService(provider)

	_, err := svc.CreatorProfile(context.Background(), "creator.eth")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDependencyFailure))
}
