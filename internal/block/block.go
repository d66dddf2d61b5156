package block

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/artfolio/marketplace-indexer/internal/adapter"
	"github.com/artfolio/marketplace-indexer/internal/logger"
)

// headInfo represents the cached chain head
type headInfo struct {
	Number   uint64
	CachedAt time.Time
}

// timestampCache represents a cached timestamp for a specific block number
type timestampCache struct {
	Timestamp time.Time
	CachedAt  time.Time
}

// Provider provides cached access to the chain head and block timestamps.
// It reduces RPC calls to the node by caching the head for a configurable
// TTL and block timestamps effectively forever (they are immutable once
// the block is confirmed).
//
//go:generate mockgen -source=block.go -destination=../mocks/block_provider.go -package=mocks -mock_names=Provider=MockBlockProvider
type Provider interface {
	// CurrentHead returns the latest block number, potentially from cache
	CurrentHead(ctx context.Context) (uint64, error)

	// BlockTimestamp returns the timestamp for a given block number, potentially from cache
	BlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// Fetcher is the interface for fetching block information from the chain
//
//go:generate mockgen -source=block.go -destination=../mocks/block_provider.go -package=mocks -mock_names=Fetcher=MockBlockFetcher
type Fetcher interface {
	// FetchHead fetches the latest block number from the chain
	FetchHead(ctx context.Context) (uint64, error)

	// FetchBlockTimestamp fetches the timestamp for a given block number
	FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// Config holds configuration for the Provider
type Config struct {
	// TTL is how long to cache the head block number
	TTL time.Duration

	// StaleWindow is how long stale data may be served when fetching fails.
	// If the cached data is older than this and the fetch fails, return error
	StaleWindow time.Duration

	// TimestampTTL is how long to cache block timestamps.
	// Set to 0 to cache forever (recommended for confirmed blocks)
	TimestampTTL time.Duration
}

// provider implements Provider with TTL-based caching
type provider struct {
	fetcher Fetcher
	config  Config
	clock   adapter.Clock

	mu         sync.RWMutex
	head       *headInfo
	timestamps map[uint64]*timestampCache
}

// NewProvider creates a new Provider with caching
func NewProvider(fetcher Fetcher, config Config, clock adapter.Clock) Provider {
	return &provider{
		fetcher:    fetcher,
		config:     config,
		clock:      clock,
		timestamps: make(map[uint64]*timestampCache),
	}
}

// CurrentHead returns the latest block number, using cache if valid
func (p *provider) CurrentHead(ctx context.Context) (uint64, error) {
	p.mu.RLock()
	cached := p.head
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && now.Sub(cached.CachedAt) < p.config.TTL {
		logger.DebugCtx(ctx, "Using cached chain head", zap.Uint64("block_number", cached.Number))
		return cached.Number, nil
	}

	head, err := p.fetcher.FetchHead(ctx)
	if err != nil {
		// Serve stale cache as a fallback within the stale window
		if cached != nil && now.Sub(cached.CachedAt) < p.config.StaleWindow {
			logger.DebugCtx(ctx, "Using stale chain head", zap.Uint64("block_number", cached.Number))
			return cached.Number, nil
		}
		return 0, fmt.Errorf("failed to fetch chain head and no valid cache available: %w", err)
	}

	p.mu.Lock()
	p.head = &headInfo{
		Number:   head,
		CachedAt: now,
	}
	p.mu.Unlock()

	return head, nil
}

// BlockTimestamp returns the timestamp for a given block number, using cache if valid
func (p *provider) BlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	p.mu.RLock()
	cached := p.timestamps[blockNumber]
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && (p.config.TimestampTTL == 0 || now.Sub(cached.CachedAt) < p.config.TimestampTTL) {
		return cached.Timestamp, nil
	}

	timestamp, err := p.fetcher.FetchBlockTimestamp(ctx, blockNumber)
	if err != nil {
		if cached != nil && now.Sub(cached.CachedAt) < p.config.StaleWindow {
			return cached.Timestamp, nil
		}
		return time.Time{}, fmt.Errorf("failed to fetch timestamp for block %d and no valid cache available: %w", blockNumber, err)
	}

	p.mu.Lock()
	p.timestamps[blockNumber] = &timestampCache{
		Timestamp: timestamp,
		CachedAt:  now,
	}
	p.mu.Unlock()

	return timestamp, nil
}
