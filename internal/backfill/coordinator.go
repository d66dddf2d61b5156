package backfill

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/artfolio/marketplace-indexer/internal/adapter"
	"github.com/artfolio/marketplace-indexer/internal/block"
	"github.com/artfolio/marketplace-indexer/internal/domain"
	"github.com/artfolio/marketplace-indexer/internal/logger"
	"github.com/artfolio/marketplace-indexer/internal/projector"
	"github.com/artfolio/marketplace-indexer/internal/providers/ethereum"
	"github.com/artfolio/marketplace-indexer/internal/store"
)

// Config holds the configuration for a backfill run
type Config struct {
	// ContractAddress keys the persisted cursor
	ContractAddress string

	// StartBlock is where to start when no cursor exists (contract deploy block)
	StartBlock uint64

	// WindowSize is the initial block window per log query. Free-tier
	// nodes commonly cap this at around 10 blocks
	WindowSize uint64

	// WindowsPerSecond paces queries between windows
	WindowsPerSecond float64
}

// Coordinator walks the historical event log from the persisted cursor to
// the chain head, projecting every event exactly once in chain order
type Coordinator interface {
	// Run performs one catch-up pass and returns when the cursor reaches
	// the head or ctx is cancelled
	Run(ctx context.Context) error
}

type coordinator struct {
	chain     ethereum.ChainClient
	blocks    block.Provider
	projector projector.Projector
	store     store.Store
	clock     adapter.Clock
	limiter   *rate.Limiter
	config    Config
}

// NewCoordinator creates a backfill coordinator
func NewCoordinator(
	chain ethereum.ChainClient,
	blocks block.Provider,
	proj projector.Projector,
	st store.Store,
	clock adapter.Clock,
	cfg Config,
) Coordinator {
	if cfg.WindowSize == 0 {
		cfg.WindowSize = 9
	}
	if cfg.WindowsPerSecond == 0 {
		cfg.WindowsPerSecond = 1
	}

	return &coordinator{
		chain:     chain,
		blocks:    blocks,
		projector: proj,
		store:     st,
		clock:     clock,
		limiter:   rate.NewLimiter(rate.Limit(cfg.WindowsPerSecond), 1),
		config:    cfg,
	}
}

// Run performs one catch-up pass from the cursor to the chain head
func (c *coordinator) Run(ctx context.Context) error {
	from, err := c.resumePoint(ctx)
	if err != nil {
		return err
	}

	window := c.config.WindowSize
	retry := backoff.NewExponentialBackOff()

	logger.InfoCtx(ctx, "Backfill starting",
		zap.Uint64("from_block", from),
		zap.Uint64("window", window))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Head is re-read every iteration so blocks mined during a long
		// catch-up are included before the pass finishes
		head, err := c.blocks.CurrentHead(ctx)
		if err != nil {
			return fmt.Errorf("failed to get chain head: %w", err)
		}

		if from > head {
			logger.InfoCtx(ctx, "Backfill caught up", zap.Uint64("head", head))
			return nil
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		to := from + window - 1
		if to > head {
			to = head
		}

		logs, err := c.chain.FilterMarketplaceLogs(ctx, from, to)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrRangeTooLarge):
				if window <= 1 {
					return fmt.Errorf("single-block window still too large at block %d: %w", from, err)
				}
				window /= 2
				logger.WarnCtx(ctx, "Window too large, halving",
					zap.Uint64("window", window),
					zap.Uint64("from_block", from))
				continue

			case errors.Is(err, domain.ErrRateLimited), errors.Is(err, domain.ErrNodeUnavailable):
				delay := retry.NextBackOff()
				if delay == backoff.Stop {
					return fmt.Errorf("giving up on window [%d, %d]: %w", from, to, err)
				}
				logger.WarnCtx(ctx, "Transient node error, backing off",
					zap.Duration("delay", delay),
					zap.Uint64("from_block", from),
					zap.Error(err))
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-c.clock.After(delay):
				}
				continue

			default:
				return fmt.Errorf("failed to fetch logs for window [%d, %d]: %w", from, to, err)
			}
		}

		if err := c.projectWindow(ctx, logs); err != nil {
			// Cursor untouched, the window replays on the next attempt
			return err
		}

		// Cursor points at the next unprocessed block, so a crash after
		// this write never replays the finished window
		if err := c.store.SetBlockCursor(ctx, c.config.ContractAddress, to+1); err != nil {
			return fmt.Errorf("failed to advance cursor: %w", err)
		}

		logger.DebugCtx(ctx, "Window projected",
			zap.Uint64("from_block", from),
			zap.Uint64("to_block", to),
			zap.Int("logs", len(logs)))

		from = to + 1
		retry.Reset()
	}
}

// resumePoint determines the first block to process: persisted cursor,
// ledger recomputation, then the configured start block
func (c *coordinator) resumePoint(ctx context.Context) (uint64, error) {
	cursor, err := c.store.GetBlockCursor(ctx, c.config.ContractAddress)
	if err != nil {
		return 0, fmt.Errorf("failed to read cursor: %w", err)
	}
	if cursor > 0 {
		return cursor, nil
	}

	// No cursor, recompute from the ledger. Re-projecting the boundary
	// block is safe, all writes are idempotent
	maxBlock, err := c.store.MaxActivityBlock(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to recompute cursor: %w", err)
	}
	if maxBlock > 0 && maxBlock >= c.config.StartBlock {
		return maxBlock, nil
	}

	return c.config.StartBlock, nil
}

// projectWindow decodes and applies a window's logs in chain order
func (c *coordinator) projectWindow(ctx context.Context, logs []types.Log) error {
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})

	for _, vLog := range logs {
		timestamp, err := c.blocks.BlockTimestamp(ctx, vLog.BlockNumber)
		if err != nil {
			return fmt.Errorf("failed to get timestamp for block %d: %w", vLog.BlockNumber, err)
		}

		event, err := ethereum.DecodeLog(vLog, timestamp)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownEventSignature) {
				logger.DebugCtx(ctx, "Skipping log with unknown signature",
					zap.String("tx_hash", vLog.TxHash.Hex()))
				continue
			}
			logger.WarnCtx(ctx, "Skipping undecodable log",
				zap.String("tx_hash", vLog.TxHash.Hex()),
				zap.Error(err))
			continue
		}

		if err := c.projector.Apply(ctx, event); err != nil {
			return fmt.Errorf("failed to project event %s: %w", event.Meta().TxHash, err)
		}
	}

	return nil
}
