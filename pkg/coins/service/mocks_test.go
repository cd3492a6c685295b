package service

import (
	"context"

	"github.com/blitzfun/blitz-api/pkg/coins"
)

// mockProvider implements Provider with overridable function fields.
type mockProvider struct {
	getCoinFn         func(ctx context.Context, address string, chainID int) (*coins.Coin, error)
	getCoinSwapsFn    func(ctx context.Context, address string, chainID, first int) ([]coins.Swap, error)
	getProfileFn      func(ctx context.Context, identifier string) (*coins.Profile, error)
	getCreatorCoinsFn func(ctx context.Context, identifier string, count int) ([]coins.CreatorCoin, error)
}

func (m *mockProvider) GetCoin(ctx context.Context, address string, chainID int) (*coins.Coin, error) {
	return m.getCoinFn(ctx, address, chainID)
}

func (m *mockProvider) GetCoinSwaps(ctx context.Context, address string, chainID, first int) ([]coins.Swap, error) {
	return m.getCoinSwapsFn(ctx, address, chainID, first)
}

func (m *mockProvider) GetProfile(ctx context.Context, identifier string) (*coins.Profile, error) {
	return m.getProfileFn(ctx, identifier)
}

func (m *mockProvider) GetCreatorCoins(ctx context.Context, identifier string, count int) ([]coins.CreatorCoin, error) {
	return m.getCreatorCoinsFn(ctx, identifier, count)
}
