package waitliststore

import (
	"context"
	"errors"

	"github.com/blitzfun/blitz-api/pkg/waitlist"
)

// ErrEntryNotFound is returned when a waitlist lookup finds no matching record.
var ErrEntryNotFound = errors.New("waitlist entry not found")

// Store defines the interface for waitlist data persistence
type Store interface {
	// InsertWithNextCardNumber assigns max(card_number)+1 to the entry and
	// inserts it, both inside a single transaction. The assigned card number
	// is written back to entry.CardNumber. A concurrent admission can still
	// collide on the card_number unique index; callers are expected to retry
	// on unique violation.
	InsertWithNextCardNumber(ctx context.Context, entry *waitlist.Entry) error
	GetByFid(ctx context.Context, fid string) (*waitlist.Entry, error)
	ExistsByFid(ctx context.Context, fid string) (bool, error)
	MaxCardNumber(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*waitlist.Stats, error)
}
