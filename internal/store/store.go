package store

import (
	"context"
	"time"

	"github.com/artfolio/marketplace-indexer/internal/domain"
	"github.com/artfolio/marketplace-indexer/internal/store/schema"
)

// MintRecord holds everything needed to project a mint event
type MintRecord struct {
	TokenID         string
	ContractAddress string
	Creator         string
	RoyaltyPercent  int16
	TokenURI        string
	Metadata        domain.TokenMetadata
	TxHash          string
	BlockNumber     uint64
	Timestamp       time.Time
}

// ListingRecord holds everything needed to project a listing event
type ListingRecord struct {
	TokenID         string
	ContractAddress string
	Seller          string
	Price           string
	TxHash          string
	BlockNumber     uint64
	Timestamp       time.Time
}

// PurchaseRecord holds everything needed to project a purchase event.
// The seller is not part of the record: it is recovered from the stored
// snapshot inside the transaction
type PurchaseRecord struct {
	TokenID         string
	ContractAddress string
	Buyer           string
	Price           string
	TxHash          string
	BlockNumber     uint64
	Timestamp       time.Time
}

// Store defines the replica store interface: transactional projection
// writes for the indexer and the read contract for the serving layer
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// CreateMint atomically records a mint activity and creates (or
	// enriches a placeholder) snapshot. Returns false when the activity
	// was already recorded
	CreateMint(ctx context.Context, record MintRecord) (bool, error)

	// UpdateListing atomically records a list activity and marks the
	// snapshot as listed, creating a placeholder snapshot if the mint has
	// not been seen yet. Returns false when the activity was already recorded
	UpdateListing(ctx context.Context, record ListingRecord) (bool, error)

	// UpdatePurchase atomically records a buy activity and transfers
	// ownership, clearing listing and auction state. The seller recovered
	// from the snapshot is returned alongside; "unknown" when no snapshot
	// existed. Returns false when the activity was already recorded
	UpdatePurchase(ctx context.Context, record PurchaseRecord) (bool, string, error)

	// HasActivity reports whether an activity with the given tx hash exists
	HasActivity(ctx context.Context, txHash string) (bool, error)

	// GetNFTByTokenID retrieves a snapshot by token ID, nil when absent
	GetNFTByTokenID(ctx context.Context, tokenID string) (*schema.NFT, error)

	// ListNFTsForSale retrieves snapshots that are listed or in an active auction
	ListNFTsForSale(ctx context.Context) ([]schema.NFT, error)

	// ListNFTsByOwner retrieves snapshots owned by an address
	ListNFTsByOwner(ctx context.Context, owner string) ([]schema.NFT, error)

	// SearchNFTs retrieves snapshots whose name or description matches the query
	SearchNFTs(ctx context.Context, query string) ([]schema.NFT, error)

	// ListActivities retrieves the most recent activities across all tokens
	ListActivities(ctx context.Context, limit int) ([]schema.Activity, error)

	// ListActivitiesByTokenID retrieves a token's activities, most recent first
	ListActivitiesByTokenID(ctx context.Context, tokenID string) ([]schema.Activity, error)

	// MaxActivityBlock returns the highest block number in the ledger,
	// 0 when the ledger is empty. Used to recompute a lost cursor
	MaxActivityBlock(ctx context.Context) (uint64, error)

	// GetBlockCursor retrieves the next block to process for a contract, 0 when unset
	GetBlockCursor(ctx context.Context, contract string) (uint64, error)

	// SetBlockCursor stores the next block to process for a contract
	SetBlockCursor(ctx context.Context, contract string, blockNumber uint64) error
}
