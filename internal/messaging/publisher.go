package messaging

import (
	"context"
	"time"

	"github.com/artfolio/marketplace-indexer/internal/domain"
)

// ActivityMessage is the fan-out payload emitted for each newly projected
// activity, consumed by downstream services (notifications, feeds)
type ActivityMessage struct {
	Kind        domain.ActivityKind `json:"kind"`
	TokenID     string              `json:"token_id"`
	FromAddress string              `json:"from_address"`
	ToAddress   string              `json:"to_address"`
	Price       string              `json:"price"`
	TxHash      string              `json:"tx_hash"`
	BlockNumber uint64              `json:"block_number"`
	Timestamp   time.Time           `json:"timestamp"`
}

// Publisher publishes projected activities for downstream consumers
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishActivity publishes a projected activity
	PublishActivity(ctx context.Context, msg *ActivityMessage) error

	// Close closes the underlying connection
	Close()
}
