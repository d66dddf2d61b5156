package ethereum

import (
	"context"
	"time"

	"github.com/artfolio/marketplace-indexer/internal/block"
)

// blockFetcher adapts ChainClient to the block.Fetcher interface
type blockFetcher struct {
	client ChainClient
}

// NewBlockFetcher creates a block.Fetcher backed by the chain client
func NewBlockFetcher(client ChainClient) block.Fetcher {
	return &blockFetcher{client: client}
}

// FetchHead fetches the latest block number from the chain
func (f *blockFetcher) FetchHead(ctx context.Context) (uint64, error) {
	return f.client.CurrentHeight(ctx)
}

// FetchBlockTimestamp fetches the timestamp for a given block number
func (f *blockFetcher) FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	return f.client.BlockTimestamp(ctx, blockNumber)
}
