package domain

import (
	"strings"
	"time"
)

// ActivityKind labels an entry in the marketplace activity ledger.
type ActivityKind string

const (
	ActivityKindMint            ActivityKind = "mint"
	ActivityKindList            ActivityKind = "list"
	ActivityKindBuy             ActivityKind = "buy"
	ActivityKindBid             ActivityKind = "bid"
	ActivityKindAuctionStart    ActivityKind = "auction_start"
	ActivityKindAuctionFinalize ActivityKind = "auction_finalize"
	ActivityKindTransfer        ActivityKind = "transfer"
	ActivityKindWithdraw        ActivityKind = "withdraw"
)

// IsValidActivityKind checks if an activity kind is valid
func IsValidActivityKind(kind ActivityKind) bool {
	switch kind {
	case ActivityKindMint, ActivityKindList, ActivityKindBuy,
		ActivityKindBid, ActivityKindAuctionStart, ActivityKindAuctionFinalize,
		ActivityKindTransfer, ActivityKindWithdraw:
		return true
	}
	return false
}

// EventMeta carries the on-chain provenance shared by every decoded event
type EventMeta struct {
	TxHash      string    `json:"tx_hash"`
	BlockNumber uint64    `json:"block_number"`
	LogIndex    uint      `json:"log_index"`
	Timestamp   time.Time `json:"timestamp"`
}

// Event is a decoded marketplace contract event. The variant set is closed:
// MintedEvent, ListedEvent and BoughtEvent are the only implementations.
type Event interface {
	Meta() EventMeta
	Kind() ActivityKind
}

// MintedEvent represents a token minted by a creator
type MintedEvent struct {
	EventMeta
	Creator string `json:"creator"`
	TokenID string `json:"token_id"`
}

func (e MintedEvent) Meta() EventMeta    { return e.EventMeta }
func (e MintedEvent) Kind() ActivityKind { return ActivityKindMint }

// ListedEvent represents a token put up for sale at a fixed price
type ListedEvent struct {
	EventMeta
	Seller  string `json:"seller"`
	TokenID string `json:"token_id"`
	Price   string `json:"price"`
}

func (e ListedEvent) Meta() EventMeta    { return e.EventMeta }
func (e ListedEvent) Kind() ActivityKind { return ActivityKindList }

// BoughtEvent represents a completed fixed-price purchase
type BoughtEvent struct {
	EventMeta
	Buyer   string `json:"buyer"`
	TokenID string `json:"token_id"`
	Price   string `json:"price"`
}

func (e BoughtEvent) Meta() EventMeta    { return e.EventMeta }
func (e BoughtEvent) Kind() ActivityKind { return ActivityKindBuy }

// TokenMetadata is the off-chain descriptive payload resolved from a token URI
type TokenMetadata struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Traits      []Trait `json:"traits"`
}

// Trait is a single attribute from token metadata
type Trait struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// NormalizeAddress lowercases a hex address for storage and comparison
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// IsZeroAddress reports whether addr is the Ethereum zero address
func IsZeroAddress(addr string) bool {
	return NormalizeAddress(addr) == EthereumZeroAddress
}
