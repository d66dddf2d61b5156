package ethereum

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/artfolio/marketplace-indexer/internal/block"
	"github.com/artfolio/marketplace-indexer/internal/domain"
	"github.com/artfolio/marketplace-indexer/internal/logger"
	"github.com/artfolio/marketplace-indexer/internal/projector"
)

// SubscriberConfig holds the configuration for the live subscription
type SubscriberConfig struct {
	// QueueSize bounds each event queue; intake blocks when a queue is full
	QueueSize int

	// MaxRetries bounds projection retries before an event is dropped
	MaxRetries uint64

	// RetryInitialInterval is the first retry delay
	RetryInitialInterval time.Duration
}

// Subscriber tails the contract's event stream and projects each event.
// One single-worker pool per event kind keeps per-kind ordering while
// bounding memory under bursts
type Subscriber interface {
	// Run subscribes and processes events until ctx is cancelled or the
	// subscription fails. A subscription failure surfaces to the caller
	// for a process-level restart; missed events are recovered by backfill
	Run(ctx context.Context) error
}

type liveSubscriber struct {
	client    ChainClient
	blocks    block.Provider
	projector projector.Projector
	config    SubscriberConfig
}

// NewSubscriber creates a new live event subscriber
func NewSubscriber(client ChainClient, blocks block.Provider, proj projector.Projector, cfg SubscriberConfig) Subscriber {
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1024
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryInitialInterval == 0 {
		cfg.RetryInitialInterval = time.Second
	}

	return &liveSubscriber{
		client:    client,
		blocks:    blocks,
		projector: proj,
		config:    cfg,
	}
}

// Run subscribes and processes events until ctx is cancelled or the subscription fails
func (s *liveSubscriber) Run(ctx context.Context) error {
	logs := make(chan types.Log)
	sub, err := s.client.SubscribeMarketplaceLogs(ctx, logs)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	// One single-worker pool per event kind: events of the same kind are
	// applied in arrival order, kinds proceed independently
	pools := make(map[domain.ActivityKind]pond.Pool, 3)
	for _, kind := range []domain.ActivityKind{
		domain.ActivityKindMint,
		domain.ActivityKindList,
		domain.ActivityKindBuy,
	} {
		pools[kind] = pond.NewPool(1,
			pond.WithQueueSize(s.config.QueueSize),
			pond.WithContext(ctx),
		)
	}
	defer func() {
		for _, pool := range pools {
			pool.StopAndWait()
		}
	}()

	logger.InfoCtx(ctx, "Live subscription started")

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Live subscription stopping")
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("subscription error: %w", err)
		case vLog := <-logs:
			if vLog.Removed {
				// Reorged-out log, the replaying block will redeliver it
				logger.WarnCtx(ctx, "Skipping removed log",
					zap.String("tx_hash", vLog.TxHash.Hex()),
					zap.Uint64("block_number", vLog.BlockNumber))
				continue
			}

			kind, ok := eventKindForLog(vLog)
			if !ok {
				logger.DebugCtx(ctx, "Skipping log with unknown signature",
					zap.String("tx_hash", vLog.TxHash.Hex()))
				continue
			}

			pools[kind].Submit(func() {
				s.handleLog(ctx, vLog)
			})
		}
	}
}

// handleLog decodes and projects one log with bounded retries
func (s *liveSubscriber) handleLog(ctx context.Context, vLog types.Log) {
	// Confirm the transaction is mined before projecting
	txHash, err := s.client.ReceiptTxHash(ctx, vLog)
	if err != nil {
		logger.WarnCtx(ctx, "Dropping event without a confirmed receipt",
			zap.String("tx_hash", vLog.TxHash.Hex()),
			zap.Error(err))
		return
	}

	timestamp, err := s.blocks.BlockTimestamp(ctx, vLog.BlockNumber)
	if err != nil {
		logger.WarnCtx(ctx, "Dropping event without a block timestamp",
			zap.String("tx_hash", txHash),
			zap.Error(err))
		return
	}

	event, err := DecodeLog(vLog, timestamp)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownEventSignature) {
			return
		}
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Dropping undecodable event"),
			zap.String("tx_hash", txHash))
		return
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.config.RetryInitialInterval

	operation := func() error {
		return s.projector.Apply(ctx, event)
	}

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, s.config.MaxRetries), ctx)); err != nil {
		// Dropped here, the next backfill pass picks it up
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Dropping event after retries"),
			zap.String("tx_hash", txHash),
			zap.String("kind", string(event.Kind())))
	}
}

// eventKindForLog maps a log's first topic to its activity kind
func eventKindForLog(vLog types.Log) (domain.ActivityKind, bool) {
	if len(vLog.Topics) == 0 {
		return "", false
	}

	switch vLog.Topics[0] {
	case mintedEventSignature:
		return domain.ActivityKindMint, true
	case listedEventSignature:
		return domain.ActivityKindList, true
	case boughtEventSignature:
		return domain.ActivityKindBuy, true
	default:
		return "", false
	}
}
