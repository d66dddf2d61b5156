package projector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/artfolio/marketplace-indexer/internal/domain"
	"github.com/artfolio/marketplace-indexer/internal/logger"
	"github.com/artfolio/marketplace-indexer/internal/messaging"
	"github.com/artfolio/marketplace-indexer/internal/metadata"
	"github.com/artfolio/marketplace-indexer/internal/store"
)

// TokenEnricher is the slice of the chain client the projector needs to
// enrich a freshly minted token
type TokenEnricher interface {
	TokenURI(ctx context.Context, tokenID string) (string, error)
	RoyaltyPercent(ctx context.Context, tokenID string) (int16, error)
}

// Config holds projector configuration
type Config struct {
	ContractAddress string
}

// Projector applies decoded marketplace events to the replica store.
// Apply is idempotent: redelivering an already-projected event is a no-op,
// and transient failures abort without partial writes so the caller can
// safely retry
//
//go:generate mockgen -source=projector.go -destination=../mocks/projector.go -package=mocks -mock_names=Projector=MockProjector
type Projector interface {
	Apply(ctx context.Context, event domain.Event) error
}

type eventProjector struct {
	config    Config
	enricher  TokenEnricher
	metadata  metadata.Fetcher
	store     store.Store
	publisher messaging.Publisher
}

// New creates a projector. The publisher may be nil, in which case
// projected activities are not fanned out
func New(cfg Config, enricher TokenEnricher, fetcher metadata.Fetcher, st store.Store, pub messaging.Publisher) Projector {
	return &eventProjector{
		config:    cfg,
		enricher:  enricher,
		metadata:  fetcher,
		store:     st,
		publisher: pub,
	}
}

// Apply dispatches an event to its projection. The variant set is closed,
// an unhandled variant is a programming error
func (p *eventProjector) Apply(ctx context.Context, event domain.Event) error {
	switch ev := event.(type) {
	case domain.MintedEvent:
		return p.applyMint(ctx, ev)
	case domain.ListedEvent:
		return p.applyListing(ctx, ev)
	case domain.BoughtEvent:
		return p.applyPurchase(ctx, ev)
	default:
		return fmt.Errorf("unhandled event variant %T", event)
	}
}

// applyMint projects a mint: enrichment reads, metadata fetch, then a
// transactional snapshot insert and activity append
func (p *eventProjector) applyMint(ctx context.Context, ev domain.MintedEvent) error {
	// Short-circuit duplicates before the expensive chain and metadata
	// reads; the store guards again inside the transaction
	exists, err := p.store.HasActivity(ctx, ev.TxHash)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate mint: %w", err)
	}
	if exists {
		logger.DebugCtx(ctx, "Skipping already projected mint", zap.String("tx_hash", ev.TxHash))
		return nil
	}

	tokenURI, err := p.enricher.TokenURI(ctx, ev.TokenID)
	if err != nil {
		return fmt.Errorf("failed to read token URI for token %s: %w", ev.TokenID, err)
	}

	royalty, err := p.enricher.RoyaltyPercent(ctx, ev.TokenID)
	if err != nil {
		return fmt.Errorf("failed to read royalty for token %s: %w", ev.TokenID, err)
	}

	meta, resolved := p.metadata.Fetch(ctx, tokenURI, ev.TokenID)
	if !resolved {
		logger.WarnCtx(ctx, "Projecting mint with default metadata",
			zap.String("token_id", ev.TokenID),
			zap.String("token_uri", tokenURI))
	}

	created, err := p.store.CreateMint(ctx, store.MintRecord{
		TokenID:         ev.TokenID,
		ContractAddress: p.config.ContractAddress,
		Creator:         ev.Creator,
		RoyaltyPercent:  royalty,
		TokenURI:        tokenURI,
		Metadata:        meta,
		TxHash:          ev.TxHash,
		BlockNumber:     ev.BlockNumber,
		Timestamp:       ev.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to project mint: %w", err)
	}

	if created {
		p.publishActivity(ctx, ev, ev.Creator, domain.EthereumZeroAddress, "0")
	}

	return nil
}

// applyListing projects a listing onto the snapshot and the ledger
func (p *eventProjector) applyListing(ctx context.Context, ev domain.ListedEvent) error {
	created, err := p.store.UpdateListing(ctx, store.ListingRecord{
		TokenID:         ev.TokenID,
		ContractAddress: p.config.ContractAddress,
		Seller:          ev.Seller,
		Price:           ev.Price,
		TxHash:          ev.TxHash,
		BlockNumber:     ev.BlockNumber,
		Timestamp:       ev.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to project listing: %w", err)
	}

	if created {
		p.publishActivity(ctx, ev, "", ev.Seller, ev.Price)
	}

	return nil
}

// applyPurchase projects a purchase onto the snapshot and the ledger
func (p *eventProjector) applyPurchase(ctx context.Context, ev domain.BoughtEvent) error {
	created, seller, err := p.store.UpdatePurchase(ctx, store.PurchaseRecord{
		TokenID:         ev.TokenID,
		ContractAddress: p.config.ContractAddress,
		Buyer:           ev.Buyer,
		Price:           ev.Price,
		TxHash:          ev.TxHash,
		BlockNumber:     ev.BlockNumber,
		Timestamp:       ev.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to project purchase: %w", err)
	}

	if created {
		p.publishActivity(ctx, ev, ev.Buyer, seller, ev.Price)
	}

	return nil
}

// publishActivity fans out a newly projected activity. Publishing is
// best-effort and never fails the projection
func (p *eventProjector) publishActivity(ctx context.Context, event domain.Event, to, from, price string) {
	if p.publisher == nil {
		return
	}

	meta := event.Meta()
	msg := &messaging.ActivityMessage{
		Kind:        event.Kind(),
		TokenID:     tokenIDOf(event),
		FromAddress: domain.NormalizeAddress(from),
		ToAddress:   domain.NormalizeAddress(to),
		Price:       price,
		TxHash:      meta.TxHash,
		BlockNumber: meta.BlockNumber,
		Timestamp:   meta.Timestamp,
	}

	if err := p.publisher.PublishActivity(ctx, msg); err != nil {
		logger.WarnCtx(ctx, "Failed to publish activity",
			zap.String("tx_hash", meta.TxHash),
			zap.Error(err))
	}
}

func tokenIDOf(event domain.Event) string {
	switch ev := event.(type) {
	case domain.MintedEvent:
		return ev.TokenID
	case domain.ListedEvent:
		return ev.TokenID
	case domain.BoughtEvent:
		return ev.TokenID
	default:
		return ""
	}
}
