package service

import (
	"context"

	"github.com/blitzfun/blitz-api/pkg/waitlist"
)

// mockStore implements Store with overridable function fields.
type mockStore struct {
	insertFn func(ctx context.Context, entry *waitlist.Entry) error
	getFn    func(ctx context.Context, fid string) (*waitlist.Entry, error)
	existsFn func(ctx context.Context, fid string) (bool, error)
	statsFn  func(ctx context.Context) (*waitlist.Stats, error)
}

func (m *mockStore) InsertWithNextCardNumber(ctx context.Context, entry *waitlist.Entry) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, entry)
	}
	entry.CardNumber = 1
	return nil
}

func (m *mockStore) GetByFid(ctx context.Context, fid string) (*waitlist.Entry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, fid)
	}
	return nil, nil
}

func (m *mockStore) ExistsByFid(ctx context.Context, fid string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, fid)
	}
	return false, nil
}

func (m *mockStore) Stats(ctx context.Context) (*waitlist.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &waitlist.Stats{}, nil
}
