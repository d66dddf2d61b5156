package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/artfolio/marketplace-indexer/internal/domain"
	"github.com/artfolio/marketplace-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// insertActivity appends an activity inside tx. Returns false when an
// activity with the same tx hash already exists
func insertActivity(tx *gorm.DB, activity *schema.Activity) (bool, error) {
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tx_hash"}},
		DoNothing: true,
	}).Clauses(clause.Returning{Columns: []clause.Column{}}).
		Create(activity).Error; err != nil {
		return false, fmt.Errorf("failed to insert activity: %w", err)
	}

	// ID stays 0 when ON CONFLICT DO NOTHING suppressed the insert
	return activity.ID != 0, nil
}

// lockNFTByTokenID reads a snapshot with a row lock, nil when absent
func lockNFTByTokenID(tx *gorm.DB, tokenID string) (*schema.NFT, error) {
	var nft schema.NFT
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("token_id = ?", tokenID).
		First(&nft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return &nft, nil
}

func marshalTraits(traits []domain.Trait) (datatypes.JSON, error) {
	if traits == nil {
		traits = []domain.Trait{}
	}
	raw, err := json.Marshal(traits)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// CreateMint atomically records a mint activity and creates or enriches the snapshot
func (s *pgStore) CreateMint(ctx context.Context, record MintRecord) (bool, error) {
	created := false
	creator := domain.NormalizeAddress(record.Creator)

	traits, err := marshalTraits(record.Metadata.Traits)
	if err != nil {
		return false, fmt.Errorf("failed to marshal traits: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity := schema.Activity{
			TxHash:      record.TxHash,
			EventKind:   domain.ActivityKindMint,
			TokenID:     record.TokenID,
			FromAddress: domain.EthereumZeroAddress,
			ToAddress:   creator,
			Price:       "0",
			BlockNumber: record.BlockNumber,
			Timestamp:   record.Timestamp,
		}

		inserted, err := insertActivity(tx, &activity)
		if err != nil {
			return err
		}
		if !inserted {
			// Already projected, leave the snapshot untouched
			return nil
		}

		nft, err := lockNFTByTokenID(tx, record.TokenID)
		if err != nil {
			return err
		}

		switch {
		case nft == nil:
			if err := tx.Create(&schema.NFT{
				TokenID:         record.TokenID,
				ContractAddress: domain.NormalizeAddress(record.ContractAddress),
				Owner:           creator,
				Creator:         creator,
				RoyaltyPercent:  record.RoyaltyPercent,
				TokenURI:        record.TokenURI,
				ListingPrice:    "0",
				AuctionHighestBid: "0",
				Name:            record.Metadata.Name,
				Description:     record.Metadata.Description,
				ImageURL:        record.Metadata.ImageURL,
				Traits:          traits,
			}).Error; err != nil {
				return fmt.Errorf("failed to create snapshot: %w", err)
			}
		case nft.Placeholder:
			// A listing or purchase arrived first. Enrich the placeholder
			// without disturbing the marketplace state it already carries
			if err := tx.Model(&schema.NFT{}).
				Where("id = ?", nft.ID).
				Updates(map[string]interface{}{
					"creator":         creator,
					"royalty_percent": record.RoyaltyPercent,
					"token_uri":       record.TokenURI,
					"name":            record.Metadata.Name,
					"description":     record.Metadata.Description,
					"image_url":       record.Metadata.ImageURL,
					"traits":          traits,
					"placeholder":     false,
				}).Error; err != nil {
				return fmt.Errorf("failed to enrich placeholder snapshot: %w", err)
			}
		default:
			// Snapshot already complete, nothing to change
		}

		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}

// UpdateListing atomically records a list activity and marks the snapshot as listed
func (s *pgStore) UpdateListing(ctx context.Context, record ListingRecord) (bool, error) {
	created := false
	seller := domain.NormalizeAddress(record.Seller)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity := schema.Activity{
			TxHash:      record.TxHash,
			EventKind:   domain.ActivityKindList,
			TokenID:     record.TokenID,
			FromAddress: seller,
			ToAddress:   "",
			Price:       record.Price,
			BlockNumber: record.BlockNumber,
			Timestamp:   record.Timestamp,
		}

		inserted, err := insertActivity(tx, &activity)
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}

		nft, err := lockNFTByTokenID(tx, record.TokenID)
		if err != nil {
			return err
		}

		if nft == nil {
			// Mint not seen yet, create a placeholder pending enrichment
			if err := tx.Create(&schema.NFT{
				TokenID:         record.TokenID,
				ContractAddress: domain.NormalizeAddress(record.ContractAddress),
				Owner:           seller,
				Creator:         "",
				IsListed:        true,
				ListingPrice:    record.Price,
				ListingSeller:   seller,
				AuctionHighestBid: "0",
				Placeholder:     true,
			}).Error; err != nil {
				return fmt.Errorf("failed to create placeholder snapshot: %w", err)
			}
		} else {
			if err := tx.Model(&schema.NFT{}).
				Where("id = ?", nft.ID).
				Updates(map[string]interface{}{
					"is_listed":      true,
					"listing_price":  record.Price,
					"listing_seller": seller,
				}).Error; err != nil {
				return fmt.Errorf("failed to update listing state: %w", err)
			}
		}

		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}

// UpdatePurchase atomically records a buy activity and transfers ownership
func (s *pgStore) UpdatePurchase(ctx context.Context, record PurchaseRecord) (bool, string, error) {
	created := false
	buyer := domain.NormalizeAddress(record.Buyer)
	seller := domain.UnknownAddress

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		nft, err := lockNFTByTokenID(tx, record.TokenID)
		if err != nil {
			return err
		}

		// Recover the seller from the snapshot; the event itself does not
		// carry it
		if nft != nil {
			if nft.ListingSeller != "" {
				seller = nft.ListingSeller
			} else if nft.Owner != "" {
				seller = nft.Owner
			}
		}

		activity := schema.Activity{
			TxHash:      record.TxHash,
			EventKind:   domain.ActivityKindBuy,
			TokenID:     record.TokenID,
			FromAddress: seller,
			ToAddress:   buyer,
			Price:       record.Price,
			BlockNumber: record.BlockNumber,
			Timestamp:   record.Timestamp,
		}

		inserted, err := insertActivity(tx, &activity)
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}

		if nft == nil {
			// Purchase arrived before the mint, create a placeholder owned
			// by the buyer
			if err := tx.Create(&schema.NFT{
				TokenID:         record.TokenID,
				ContractAddress: domain.NormalizeAddress(record.ContractAddress),
				Owner:           buyer,
				Creator:         "",
				ListingPrice:    "0",
				AuctionHighestBid: "0",
				Placeholder:     true,
			}).Error; err != nil {
				return fmt.Errorf("failed to create placeholder snapshot: %w", err)
			}
		} else {
			if err := tx.Model(&schema.NFT{}).
				Where("id = ?", nft.ID).
				Updates(map[string]interface{}{
					"owner":                  buyer,
					"is_listed":              false,
					"listing_price":          "0",
					"listing_seller":         "",
					"is_auction_active":      false,
					"auction_highest_bid":    "0",
					"auction_highest_bidder": "",
					"auction_end_time":       nil,
				}).Error; err != nil {
				return fmt.Errorf("failed to update ownership: %w", err)
			}
		}

		created = true
		return nil
	})
	if err != nil {
		return false, "", err
	}

	return created, seller, nil
}

// HasActivity reports whether an activity with the given tx hash exists
func (s *pgStore) HasActivity(ctx context.Context, txHash string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&schema.Activity{}).
		Where("tx_hash = ?", txHash).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check activity: %w", err)
	}
	return count > 0, nil
}

// GetNFTByTokenID retrieves a snapshot by token ID
func (s *pgStore) GetNFTByTokenID(ctx context.Context, tokenID string) (*schema.NFT, error) {
	var nft schema.NFT
	err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&nft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &nft, nil
}

// ListNFTsForSale retrieves snapshots that are listed or in an active auction
func (s *pgStore) ListNFTsForSale(ctx context.Context) ([]schema.NFT, error) {
	var nfts []schema.NFT
	err := s.db.WithContext(ctx).
		Where("is_listed = ? OR is_auction_active = ?", true, true).
		Order("last_updated_at DESC").
		Find(&nfts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots for sale: %w", err)
	}
	return nfts, nil
}

// ListNFTsByOwner retrieves snapshots owned by an address
func (s *pgStore) ListNFTsByOwner(ctx context.Context, owner string) ([]schema.NFT, error) {
	var nfts []schema.NFT
	err := s.db.WithContext(ctx).
		Where("owner = ?", domain.NormalizeAddress(owner)).
		Order("created_at DESC").
		Find(&nfts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots by owner: %w", err)
	}
	return nfts, nil
}

// SearchNFTs retrieves snapshots whose name or description matches the query
func (s *pgStore) SearchNFTs(ctx context.Context, query string) ([]schema.NFT, error) {
	pattern := "%" + query + "%"

	var nfts []schema.NFT
	err := s.db.WithContext(ctx).
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order("created_at DESC").
		Find(&nfts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search snapshots: %w", err)
	}
	return nfts, nil
}

// ListActivities retrieves the most recent activities across all tokens
func (s *pgStore) ListActivities(ctx context.Context, limit int) ([]schema.Activity, error) {
	var activities []schema.Activity
	err := s.db.WithContext(ctx).
		Order("block_number DESC, id DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// ListActivitiesByTokenID retrieves a token's activities, most recent first
func (s *pgStore) ListActivitiesByTokenID(ctx context.Context, tokenID string) ([]schema.Activity, error) {
	var activities []schema.Activity
	err := s.db.WithContext(ctx).
		Where("token_id = ?", tokenID).
		Order("block_number DESC, id DESC").
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activities by token: %w", err)
	}
	return activities, nil
}

// MaxActivityBlock returns the highest block number in the ledger
func (s *pgStore) MaxActivityBlock(ctx context.Context) (uint64, error) {
	var maxBlock uint64
	err := s.db.WithContext(ctx).Model(&schema.Activity{}).
		Select("COALESCE(MAX(block_number), 0)").
		Scan(&maxBlock).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get max activity block: %w", err)
	}
	return maxBlock, nil
}
