package waitliststore

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"

	"github.com/blitzfun/blitz-api/pkg/waitlist"
)

// EntryDao is a data access object that maps directly to the 'waitlist_entries' table in PostgreSQL.
type EntryDao struct {
	bun.BaseModel    `bun:"table:waitlist_entries,alias:we"`
	ID               string          `bun:"id,pk,type:uuid"`
	Fid              string          `bun:"fid,notnull,type:varchar(64)"`
	Username         string          `bun:"username,notnull,type:varchar(255)"`
	DisplayName      *string         `bun:"display_name,type:varchar(255)"`
	PfpURL           *string         `bun:"pfp_url,type:text"`
	Location         *string         `bun:"location,type:text"`
	WalletAddress    *string         `bun:"wallet_address,type:varchar(64)"`
	Signature        string          `bun:"signature,notnull,type:text"`
	SignatureMessage *string         `bun:"signature_message,type:text"`
	ChainID          *string         `bun:"chain_id,type:varchar(32)"`
	ClientFid        *string         `bun:"client_fid,type:varchar(64)"`
	PlatformType     *string         `bun:"platform_type,type:varchar(64)"`
	CardNumber       int             `bun:"card_number,notnull"`
	FullContext      json.RawMessage `bun:"full_context,nullzero,type:jsonb"`
	IsActive         bool            `bun:"is_active,notnull,default:true"`
	CreatedAt        time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// toEntryDao converts a waitlist.Entry to EntryDao.
func toEntryDao(entry *waitlist.Entry) *EntryDao {
	dao := &EntryDao{
		ID:          entry.ID,
		Fid:         entry.Fid,
		Username:    entry.Username,
		Signature:   entry.Signature,
		CardNumber:  entry.CardNumber,
		FullContext: entry.FullContext,
		IsActive:    entry.IsActive,
	}

	if entry.DisplayName != "" {
		dao.DisplayName = &entry.DisplayName
	}
	if entry.PfpURL != "" {
		dao.PfpURL = &entry.PfpURL
	}
	if entry.Location != "" {
		dao.Location = &entry.Location
	}
	if entry.WalletAddress != "" {
		dao.WalletAddress = &entry.WalletAddress
	}
	if entry.SignatureMessage != "" {
		dao.SignatureMessage = &entry.SignatureMessage
	}
	if entry.ChainID != "" {
		dao.ChainID = &entry.ChainID
	}
	if entry.ClientFid != "" {
		dao.ClientFid = &entry.ClientFid
	}
	if entry.PlatformType != "" {
		dao.PlatformType = &entry.PlatformType
	}

	return dao
}

// toEntry converts an EntryDao to waitlist.Entry.
func toEntry(dao *EntryDao) *waitlist.Entry {
	entry := &waitlist.Entry{
		ID:          dao.ID,
		Fid:         dao.Fid,
		Username:    dao.Username,
		Signature:   dao.Signature,
		CardNumber:  dao.CardNumber,
		FullContext: dao.FullContext,
		IsActive:    dao.IsActive,
		CreatedAt:   dao.CreatedAt,
		UpdatedAt:   dao.UpdatedAt,
	}

	if dao.DisplayName != nil {
		entry.DisplayName = *dao.DisplayName
	}
	if dao.PfpURL != nil {
		entry.PfpURL = *dao.PfpURL
	}
	if dao.Location != nil {
		entry.Location = *dao.Location
	}
	if dao.WalletAddress != nil {
		entry.WalletAddress = *dao.WalletAddress
	}
	if dao.SignatureMessage != nil {
		entry.SignatureMessage = *dao.SignatureMessage
	}
	if dao.ChainID != nil {
		entry.ChainID = *dao.ChainID
	}
	if dao.ClientFid != nil {
		entry.ClientFid = *dao.ClientFid
	}
	if dao.PlatformType != nil {
		entry.PlatformType = *dao.PlatformType
	}

	return entry
}
