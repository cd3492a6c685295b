// Package zora implements a read-only client for the Zora coins API.
package zora

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/blitzfun/blitz-api/internal/metrics"
	"github.com/blitzfun/blitz-api/pkg/coins"
	"github.com/blitzfun/blitz-api/pkg/config"
)

const defaultRequestTimeout = 15 * time.Second

// Client talks to the Zora coins REST API (api-sdk.zora.engineering).
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Zora API client from config.
func NewClient(cfg *config.ZoraConfig, logger *zap.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type coinResponse struct {
	Zora20Token *struct {
		Address     string `json:"address"`
		Symbol      string `json:"symbol"`
		Name        string `json:"name"`
		TotalSupply string `json:"totalSupply"`
		MarketCap   string `json:"marketCap"`
	} `json:"zora20Token"`
}

type coinSwapsResponse struct {
	Zora20Token *struct {
		SwapActivities struct {
			Edges []struct {
				Node struct {
					BlockTimestamp          string `json:"blockTimestamp"`
					CurrencyAmountWithPrice *struct {
						PriceUsdc string `json:"priceUsdc"`
					} `json:"currencyAmountWithPrice"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"swapActivities"`
	} `json:"zora20Token"`
}

type profileResponse struct {
	Profile *struct {
		ID          string `json:"id"`
		Handle      string `json:"handle"`
		DisplayName string `json:"displayName"`
		Bio         string `json:"bio"`
		Avatar      *struct {
			Medium string `json:"medium"`
			Small  string `json:"small"`
		} `json:"avatar"`
	} `json:"profile"`
}

type profileCoinsResponse struct {
	Profile *struct {
		CreatedCoins struct {
			Edges []struct {
				Node struct {
					Address       string `json:"address"`
					Name          string `json:"name"`
					Symbol        string `json:"symbol"`
					ChainID       int    `json:"chainId"`
					TotalSupply   string `json:"totalSupply"`
					MarketCap     string `json:"marketCap"`
					Volume24h     string `json:"volume24h"`
					UniqueHolders int    `json:"uniqueHolders"`
					CreatedAt     string `json:"createdAt"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"createdCoins"`
	} `json:"profile"`
}

// GetCoin fetches the current state of a coin by address.
func (c *Client) GetCoin(ctx context.Context, address string, chainID int) (*coins.Coin, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("chain", strconv.Itoa(chainID))

	var resp coinResponse
	if err := c.get(ctx, "/coin", params, &resp); err != nil {
		return nil, err
	}

	if resp.Zora20Token == nil {
		return nil, fmt.Errorf("%w: %s", coins.ErrNoCoinData, address)
	}

	supply, err := decimal.NewFromString(resp.Zora20Token.TotalSupply)
	if err != nil {
		return nil, fmt.Errorf("invalid total supply for %s: %w", address, err)
	}
	marketCap, err := decimal.NewFromString(resp.Zora20Token.MarketCap)
	if err != nil {
		return nil, fmt.Errorf("invalid market cap for %s: %w", address, err)
	}

	return &coins.Coin{
		Address:     address,
		Symbol:      resp.Zora20Token.Symbol,
		Name:        resp.Zora20Token.Name,
		TotalSupply: supply,
		MarketCap:   marketCap,
	}, nil
}

// GetCoinSwaps fetches up to first most-recent swap records for a coin.
// Records without a usable price come back with a nil PriceUsdc.
func (c *Client) GetCoinSwaps(ctx context.Context, address string, chainID, first int) ([]coins.Swap, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("chain", strconv.Itoa(chainID))
	params.Set("first", strconv.Itoa(first))

	var resp coinSwapsResponse
	if err := c.get(ctx, "/coinSwaps", params, &resp); err != nil {
		return nil, err
	}

	if resp.Zora20Token == nil {
		return nil, fmt.Errorf("%w: %s", coins.ErrNoCoinData, address)
	}

	edges := resp.Zora20Token.SwapActivities.Edges
	swaps := make([]coins.Swap, 0, len(edges))
	for _, edge := range edges {
		blockTime, err := time.Parse(time.RFC3339, edge.Node.BlockTimestamp)
		if err != nil {
			c.logger.Debug("Skipping swap with unparseable timestamp",
				zap.String("address", address),
				zap.String("timestamp", edge.Node.BlockTimestamp),
			)
			continue
		}

		swap := coins.Swap{BlockTime: blockTime}
		if p := edge.Node.CurrencyAmountWithPrice; p != nil && p.PriceUsdc != "" {
			price, err := decimal.NewFromString(p.PriceUsdc)
			if err == nil {
				swap.PriceUsdc = &price
			}
		}
		swaps = append(swaps, swap)
	}

	return swaps, nil
}

// GetProfile fetches a creator profile by wallet address or handle.
func (c *Client) GetProfile(ctx context.Context, identifier string) (*coins.Profile, error) {
	params := url.Values{}
	params.Set("identifier", identifier)

	var resp profileResponse
	if err := c.get(ctx, "/profile", params, &resp); err != nil {
		return nil, err
	}

	if resp.Profile == nil {
		return nil, fmt.Errorf("%w: profile %s", coins.ErrNoCoinData, identifier)
	}

	profile := &coins.Profile{
		ID:          resp.Profile.ID,
		Handle:      resp.Profile.Handle,
		DisplayName: resp.Profile.DisplayName,
		Bio:         resp.Profile.Bio,
	}
	if resp.Profile.Avatar != nil {
		profile.AvatarURL = resp.Profile.Avatar.Medium
		if profile.AvatarURL == "" {
			profile.AvatarURL = resp.Profile.Avatar.Small
		}
	}
	return profile, nil
}

// GetCreatorCoins lists coins created by a profile.
func (c *Client) GetCreatorCoins(ctx context.Context, identifier string, count int) ([]coins.CreatorCoin, error) {
	params := url.Values{}
	params.Set("identifier", identifier)
	params.Set("count", strconv.Itoa(count))

	var resp profileCoinsResponse
	if err := c.get(ctx, "/profileCoins", params, &resp); err != nil {
		return nil, err
	}

	if resp.Profile == nil {
		return nil, fmt.Errorf("%w: profile %s", coins.ErrNoCoinData, identifier)
	}

	edges := resp.Profile.CreatedCoins.Edges
	result := make([]coins.CreatorCoin, 0, len(edges))
	for _, edge := range edges {
		result = append(result, coins.CreatorCoin{
			Address:       edge.Node.Address,
			Name:          edge.Node.Name,
			Symbol:        edge.Node.Symbol,
			ChainID:       edge.Node.ChainID,
			TotalSupply:   edge.Node.TotalSupply,
			MarketCap:     edge.Node.MarketCap,
			Volume24h:     edge.Node.Volume24h,
			UniqueHolders: edge.Node.UniqueHolders,
			CreatedAt:     edge.Node.CreatedAt,
		})
	}
	return result, nil
}

// get issues a GET request against the API and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("zora request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		return fmt.Errorf("zora request %s returned status %d", endpoint, resp.StatusCode)
	}
	metrics.ProviderRequests.WithLabelValues(endpoint, "ok").Inc()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode zora response: %w", err)
	}
	return nil
}
