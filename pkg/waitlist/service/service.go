// Package service implements the waitlist admission business logic.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blitzfun/blitz-api/internal/metrics"
	apperrors "github.com/blitzfun/blitz-api/pkg/app/errors"
	"github.com/blitzfun/blitz-api/pkg/pgutil"
	"github.com/blitzfun/blitz-api/pkg/waitlist"
	"github.com/blitzfun/blitz-api/pkg/waitliststore"
)

// admitRetries bounds the number of attempts when concurrent admissions
// collide on the card_number unique index.
const admitRetries = 3

var (
	ErrDuplicateFid   = errors.New("user already exists in waitlist")
	ErrRetryExhausted = errors.New("card number assignment retries exhausted")
)

// Store is the narrow data-access interface for the waitlist service.
// Defined here to keep the service decoupled from waitliststore implementation details.
type Store interface {
	InsertWithNextCardNumber(ctx context.Context, entry *waitlist.Entry) error
	GetByFid(ctx context.Context, fid string) (*waitlist.Entry, error)
	ExistsByFid(ctx context.Context, fid string) (bool, error)
	Stats(ctx context.Context) (*waitlist.Stats, error)
}

// Service defines the interface for the waitlist business logic
type Service interface {
	Admit(ctx context.Context, sub *waitlist.Submission) (*waitlist.AdmissionResult, error)
	Lookup(ctx context.Context, fid string) (*waitlist.Entry, error)
	Stats(ctx context.Context) (*waitlist.Stats, error)
}

type waitlistService struct {
	store    Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates a new waitlist service
func NewService(store Store, logger *zap.Logger) Service {
	return &waitlistService{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Admit validates the submission, rejects duplicate fids, assigns the next
// sequential card number and persists the entry.
//
// The card number is computed as max(card_number)+1 inside a transaction;
// a unique index on card_number turns a lost race between two concurrent
// admissions into an insert failure, which is retried a bounded number of
// times with a freshly computed number.
func (s *waitlistService) Admit(ctx context.Context, sub *waitlist.Submission) (*waitlist.AdmissionResult, error) {
	if err := s.validate.Struct(sub); err != nil {
		metrics.WaitlistAdmissions.WithLabelValues("invalid").Inc()
		return nil, apperrors.ValidationError(err, "Invalid request data", validationDetails(err))
	}

	exists, err := s.store.ExistsByFid(ctx, sub.Fid)
	if err != nil {
		return nil, fmt.Errorf("failed to check waitlist entry existence: %w", err)
	}
	if exists {
		metrics.WaitlistAdmissions.WithLabelValues("duplicate").Inc()
		return nil, apperrors.ConflictError(ErrDuplicateFid, "User already exists in waitlist")
	}

	entry := newEntry(sub)

	for attempt := 0; attempt < admitRetries; attempt++ {
		err = s.store.InsertWithNextCardNumber(ctx, entry)
		if err == nil {
			metrics.WaitlistAdmissions.WithLabelValues("admitted").Inc()
			metrics.WaitlistCardNumber.Set(float64(entry.CardNumber))
			return &waitlist.AdmissionResult{ID: entry.ID, CardNumber: entry.CardNumber}, nil
		}
		if !pgutil.IsUniqueViolation(err) {
			metrics.WaitlistAdmissions.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("failed to save waitlist entry: %w", err)
		}

		// A unique violation is either a concurrent admission for the same
		// fid, or a card number collision worth retrying.
		dupFid, checkErr := s.store.ExistsByFid(ctx, sub.Fid)
		if checkErr != nil {
			return nil, fmt.Errorf("failed to re-check waitlist entry existence: %w", checkErr)
		}
		if dupFid {
			metrics.WaitlistAdmissions.WithLabelValues("duplicate").Inc()
			return nil, apperrors.ConflictError(ErrDuplicateFid, "User already exists in waitlist")
		}

		s.logger.Warn("Card number collision, retrying admission",
			zap.String("fid", sub.Fid),
			zap.Int("attempt", attempt+1),
		)
	}

	metrics.WaitlistAdmissions.WithLabelValues("error").Inc()
	return nil, apperrors.GeneralError(fmt.Errorf("%w: %v", ErrRetryExhausted, err))
}

func (s *waitlistService) Lookup(ctx context.Context, fid string) (*waitlist.Entry, error) {
	entry, err := s.store.GetByFid(ctx, fid)
	if err != nil {
		if errors.Is(err, waitliststore.ErrEntryNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "Entry not found")
		}
		return nil, fmt.Errorf("failed to get waitlist entry: %w", err)
	}
	return entry, nil
}

func (s *waitlistService) Stats(ctx context.Context) (*waitlist.Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get waitlist stats: %w", err)
	}
	return stats, nil
}

// newEntry builds a fresh Entry from a validated submission.
func newEntry(sub *waitlist.Submission) *waitlist.Entry {
	return &waitlist.Entry{
		ID:               uuid.New().String(),
		Fid:              sub.Fid,
		Username:         sub.Username,
		DisplayName:      sub.DisplayName,
		PfpURL:           sub.PfpURL,
		Location:         string(sub.Location),
		WalletAddress:    sub.WalletAddress,
		Signature:        sub.Signature,
		SignatureMessage: sub.SignatureMessage,
		ChainID:          sub.ChainID,
		ClientFid:        sub.ClientFid,
		PlatformType:     sub.PlatformType,
		FullContext:      sub.FullContext,
		IsActive:         true,
	}
}

// validationDetails flattens validator errors to field-level messages.
func validationDetails(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return details
}
