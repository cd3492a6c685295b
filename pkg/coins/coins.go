// Package coins defines the domain model for creator-coin market data.
package coins

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoCoinData is returned when the upstream provider has no token for a
// requested address.
var ErrNoCoinData = errors.New("no coin data available")

// ErrNoHistoricalPrice is returned when no usable swap exists near the
// requested timestamp. Callers recover by substituting a zero market cap.
var ErrNoHistoricalPrice = errors.New("no historical price data found near target timestamp")

// Coin is the current on-chain state of a creator coin.
type Coin struct {
	Address     string
	Symbol      string
	Name        string
	TotalSupply decimal.Decimal
	MarketCap   decimal.Decimal
}

// Swap is a single on-chain trade for a coin. PriceUsdc is nil when the
// provider did not attach a usable price to the record.
type Swap struct {
	BlockTime time.Time
	PriceUsdc *decimal.Decimal
}

// CoinMetrics holds the derived market-cap figures for one side of a
// comparison. Monetary strings are fixed to two decimal places.
type CoinMetrics struct {
	Address               string  `json:"address"`
	Symbol                string  `json:"symbol"`
	Name                  string  `json:"name"`
	StartMarketCap        string  `json:"startMarketCap"`
	CurrentMarketCap      string  `json:"currentMarketCap"`
	MarketCapIncreaseUsdc string  `json:"marketCapIncreaseUsdc"`
	PercentageIncrease    float64 `json:"percentageIncrease"`
}

// Winner identifies the side of a comparison with the larger market-cap increase.
type Winner string

const (
	WinnerCoin1 Winner = "coin1"
	WinnerCoin2 Winner = "coin2"
	WinnerTie   Winner = "tie"
)

// Score is the ratio of coin1's increase to coin2's increase. It marshals
// +Inf as the string "Infinity" since JSON has no infinity literal.
type Score float64

// MarshalJSON implements json.Marshaler.
func (s Score) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsInf(f, 1) {
		return []byte(`"Infinity"`), nil
	}
	return json.Marshal(f)
}

// ComparisonResult is the outcome of comparing two coins' market-cap growth
// since a reference timestamp. It is ephemeral and never persisted.
type ComparisonResult struct {
	Coin1           CoinMetrics `json:"coin1"`
	Coin2           CoinMetrics `json:"coin2"`
	ComparisonScore Score       `json:"comparisonScore"`
	Winner          Winner      `json:"winner"`
}

// Profile is a creator profile as reported by the coin-data provider.
type Profile struct {
	ID          string `json:"id,omitempty"`
	Handle      string `json:"handle,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// CreatorCoin is a coin created by a profile, as listed by the provider.
type CreatorCoin struct {
	Address       string `json:"address"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	ChainID       int    `json:"chainId"`
	TotalSupply   string `json:"totalSupply,omitempty"`
	MarketCap     string `json:"marketCap,omitempty"`
	Volume24h     string `json:"volume24h,omitempty"`
	UniqueHolders int    `json:"uniqueHolders,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}
