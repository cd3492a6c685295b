package apidb

import (
	"context"
	"log"

	mghelper "github.com/blitzfun/blitz-api/pkg/pgutil/migrations"
	"github.com/blitzfun/blitz-api/pkg/waitliststore"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating waitlist_entries table...")
		if err := mghelper.CreateSchema(ctx, db, &waitliststore.EntryDao{}); err != nil {
			return err
		}
		// fid uniqueness backs duplicate detection; card_number uniqueness
		// backs the transactional assignment retry.
		return mghelper.CreateModelUniqueIndexes(ctx, db, &waitliststore.EntryDao{}, "fid", "card_number")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping waitlist_entries table...")
		return mghelper.DropTables(ctx, db, &waitliststore.EntryDao{})
	})
}
