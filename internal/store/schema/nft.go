package schema

import (
	"time"

	"gorm.io/datatypes"
)

// NFT represents the nfts table - the queryable snapshot of a token's
// current ownership, marketplace state and off-chain metadata
type NFT struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenID is the token ID within the contract (string to support very large numbers)
	TokenID string `gorm:"column:token_id;not null;uniqueIndex;type:text"`
	// ContractAddress is the blockchain address of the marketplace contract
	ContractAddress string `gorm:"column:contract_address;not null;type:text"`
	// Owner is the current owner's address (lowercased)
	Owner string `gorm:"column:owner;not null;type:text;index"`
	// Creator is the minting address (lowercased)
	Creator string `gorm:"column:creator;not null;type:text"`
	// RoyaltyPercent is the creator royalty in whole percent (0-100)
	RoyaltyPercent int16 `gorm:"column:royalty_percent;not null;default:0"`
	// TokenURI is the on-chain metadata pointer, kept for re-enrichment
	TokenURI string `gorm:"column:token_uri;not null;default:'';type:text"`

	// Marketplace state
	IsListed             bool       `gorm:"column:is_listed;not null;default:false;index"`
	ListingPrice         string     `gorm:"column:listing_price;not null;default:'0';type:numeric(78,0)"`
	ListingSeller        string     `gorm:"column:listing_seller;not null;default:'';type:text"`
	IsAuctionActive      bool       `gorm:"column:is_auction_active;not null;default:false"`
	AuctionHighestBid    string     `gorm:"column:auction_highest_bid;not null;default:'0';type:numeric(78,0)"`
	AuctionHighestBidder string     `gorm:"column:auction_highest_bidder;not null;default:'';type:text"`
	AuctionEndTime       *time.Time `gorm:"column:auction_end_time"`

	// Off-chain metadata
	Name        string         `gorm:"column:name;not null;default:'unnamed';type:text"`
	Description string         `gorm:"column:description;not null;default:'';type:text"`
	ImageURL    string         `gorm:"column:image_url;not null;default:'';type:text"`
	Traits      datatypes.JSON `gorm:"column:traits;type:jsonb"`

	// Placeholder marks a snapshot created by an out-of-order listing or
	// purchase, pending enrichment by the mint event
	Placeholder bool `gorm:"column:placeholder;not null;default:false"`

	LastUpdatedAt time.Time `gorm:"column:last_updated_at;not null;autoUpdateTime"`
	CreatedAt     time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

// TableName specifies the table name for the NFT model
func (NFT) TableName() string {
	return "nfts"
}
