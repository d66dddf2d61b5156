package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/artfolio/marketplace-indexer/internal/store/schema"
)

// GetBlockCursor retrieves the next block to process for a contract.
// Returns 0 when no cursor has been stored yet
func (s *pgStore) GetBlockCursor(ctx context.Context, contract string) (uint64, error) {
	key := fmt.Sprintf("block_cursor:%s", contract)

	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}

	blockNumber, err := strconv.ParseUint(kv.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}

	return blockNumber, nil
}

// SetBlockCursor stores the next block to process for a contract
func (s *pgStore) SetBlockCursor(ctx context.Context, contract string, blockNumber uint64) error {
	key := fmt.Sprintf("block_cursor:%s", contract)
	value := strconv.FormatUint(blockNumber, 10)

	kv := schema.KeyValueStore{
		Key:   key,
		Value: value,
	}

	err := s.db.WithContext(ctx).Save(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}

	return nil
}
