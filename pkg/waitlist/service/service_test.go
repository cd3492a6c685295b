package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/blitzfun/blitz-api/pkg/app/errors"
	"github.com/blitzfun/blitz-api/pkg/pgutil"
	"github.com/blitzfun/blitz-api/pkg/waitlist"
	"github.com/blitzfun/blitz-api/pkg/waitliststore"
)

func newTestSubmission() *waitlist.Submission {
	return &waitlist.Submission{
		Fid:       "12345",
		Username:  "alice",
		Signature: "0xdeadbeef",
	}
}

func TestAdmit_Success(t *testing.T) {
	store := &mockStore{
		insertFn: func(_ context.Context, entry *waitlist.Entry) error {
			entry.CardNumber = 42
			return nil
		},
	}
	svc := NewService(store, zap.NewNop())

	result, err := svc.Admit(context.Background(), newTestSubmission())
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, 42, result.CardNumber)
}

func TestAdmit_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*waitlist.Submission)
	}{
		{"missing fid", func(s *waitlist.Submission) { s.Fid = "" }},
		{"missing username", func(s *waitlist.Submission) { s.Username = "" }},
		{"missing signature", func(s *waitlist.Submission) { s.Signature = "" }},
	}

	svc := NewService(&mockStore{}, zap.NewNop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := newTestSubmission()
			tt.mutate(sub)

			_, err := svc.Admit(context.Background(), sub)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.CategoryDataError), "expected data error, got: %v", err)

			var svcErr *apperrors.ServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.NotEmpty(t, svcErr.Details)
		})
	}
}

func TestAdmit_DuplicateFid(t *testing.T) {
	store := &mockStore{
		existsFn: func(_ context.Context, _ string) (bool, error) {
			return true, nil
		},
	}
	svc := NewService(store, zap.NewNop())

	_, err := svc.Admit(context.Background(), newTestSubmission())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataConflict), "expected conflict, got: %v", err)
	assert.ErrorIs(t, err, ErrDuplicateFid)
}

func TestAdmit_RetriesOnCardCollision(t *testing.T) {
	attempts := 0
	store := &mockStore{
		insertFn: func(_ context.Context, entry *waitlist.Entry) error {
			attempts++
			if attempts < 3 {
				return fmt.Errorf("insert: %w", pgutil.ErrUniqueViolation)
			}
			entry.CardNumber = 5
			return nil
		},
	}
	svc := NewService(store, zap.NewNop())

	result, err := svc.Admit(context.Background(), newTestSubmission())
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 5, result.CardNumber)
}

func TestAdmit_ConcurrentDuplicateDetectedOnViolation(t *testing.T) {
	// The first existence check passes, then another admission for the same
	// fid lands first and the insert hits the fid unique index.
	calls := 0
	store := &mockStore{
		existsFn: func(_ context.Context, _ string) (bool, error) {
			calls++
			return calls > 1, nil
		},
		insertFn: func(_ context.Context, _ *waitlist.Entry) error {
			return fmt.Errorf("insert: %w", pgutil.ErrUniqueViolation)
		},
	}
	svc := NewService(store, zap.NewNop())

	_, err := svc.Admit(context.Background(), newTestSubmission())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataConflict), "expected conflict, got: %v", err)
}

func TestAdmit_RetryExhausted(t *testing.T) {
	store := &mockStore{
		insertFn: func(_ context.Context, _ *waitlist.Entry) error {
			return fmt.Errorf("insert: %w", pgutil.ErrUniqueViolation)
		},
	}
	svc := NewService(store, zap.NewNop())

	_, err := svc.Admit(context.Background(), newTestSubmission())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryGeneralError), "expected general error, got: %v", err)
}

func TestAdmit_StoreError(t *testing.T) {
	store := &mockStore{
		insertFn: func(_ context.Context, _ *waitlist.Entry) error {
			return errors.New("connection refused")
		},
	}
	svc := NewService(store, zap.NewNop())

	_, err := svc.Admit(context.Background(), newTestSubmission())
	require.Error(t, err)
	assert.False(t, apperrors.Is(err, apperrors.CategoryDataConflict))
}

func TestLookup_Found(t *testing.T) {
	want := &waitlist.Entry{ID: "id-1", Fid: "12345", Username: "alice", CardNumber: 7}
	store := &mockStore{
		getFn: func(_ context.Context, fid string) (*waitlist.Entry, error) {
			assert.Equal(t, "12345", fid)
			return want, nil
		},
	}
	svc := NewService(store, zap.NewNop())

	got, err := svc.Lookup(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLookup_NotFound(t *testing.T) {
	store := &mockStore{
		getFn: func(_ context.Context, _ string) (*waitlist.Entry, error) {
			return nil, waitliststore.ErrEntryNotFound
		},
	}
	svc := NewService(store, zap.NewNop())

	_, err := svc.Lookup(context.Background(), "404")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryResourceNotFound), "expected not found, got: %v", err)
}

func TestStats(t *testing.T) {
	store := &mockStore{
		statsFn: func(_ context.Context) (*waitlist.Stats, error) {
			return &waitlist.Stats{Total: 10, Active: 10}, nil
		},
	}
	svc := NewService(store, zap.NewNop())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 10, stats.Active)
}
