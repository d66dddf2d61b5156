package schema

import (
	"time"

	"github.com/artfolio/marketplace-indexer/internal/domain"
)

// Activity represents the activities table - the append-only ledger of
// marketplace events. TxHash is the idempotency key: duplicate delivery of
// the same event inserts nothing
type Activity struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TxHash is the transaction hash of the originating event
	TxHash string `gorm:"column:tx_hash;not null;uniqueIndex;type:text"`
	// EventKind is the activity kind (mint, list, buy, ...)
	EventKind domain.ActivityKind `gorm:"column:event_kind;not null;type:text;index"`
	// TokenID is the token the activity refers to
	TokenID string `gorm:"column:token_id;not null;type:text;index"`
	// FromAddress is the initiating address (zero address for mints)
	FromAddress string `gorm:"column:from_address;not null;type:text"`
	// ToAddress is the receiving address
	ToAddress string `gorm:"column:to_address;not null;type:text"`
	// Price is the amount in wei as a decimal string ("0" when not applicable)
	Price string `gorm:"column:price;not null;default:'0';type:numeric(78,0)"`
	// BlockNumber is the block the event was emitted in
	BlockNumber uint64 `gorm:"column:block_number;not null;index"`
	// Timestamp is the block timestamp
	Timestamp time.Time `gorm:"column:timestamp;not null"`

	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

// TableName specifies the table name for the Activity model
func (Activity) TableName() string {
	return "activities"
}
