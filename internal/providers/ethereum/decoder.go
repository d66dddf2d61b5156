package ethereum

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/artfolio/marketplace-indexer/internal/domain"
)

// Marketplace event signatures. The address and token ID are indexed,
// the price rides in the data payload
var (
	// NFTMinted(address indexed creator, uint256 indexed tokenId)
	mintedEventSignature = crypto.Keccak256Hash([]byte("NFTMinted(address,uint256)"))

	// NFTListed(address indexed seller, uint256 indexed tokenId, uint256 price)
	listedEventSignature = crypto.Keccak256Hash([]byte("NFTListed(address,uint256,uint256)"))

	// NFTBought(address indexed buyer, uint256 indexed tokenId, uint256 price)
	boughtEventSignature = crypto.Keccak256Hash([]byte("NFTBought(address,uint256,uint256)"))
)

// MarketplaceEventSignatures returns the tracked topic-0 hashes
func MarketplaceEventSignatures() []common.Hash {
	return []common.Hash{
		mintedEventSignature,
		listedEventSignature,
		boughtEventSignature,
	}
}

// DecodeLog decodes a raw contract log into a typed marketplace event.
// Logs with an unrecognized topic return domain.ErrUnknownEventSignature so
// callers can skip them; recognized logs with malformed topics or data
// return domain.ErrMalformedEventLog
func DecodeLog(vLog types.Log, timestamp time.Time) (domain.Event, error) {
	if len(vLog.Topics) == 0 {
		return nil, domain.ErrUnknownEventSignature
	}

	meta := domain.EventMeta{
		TxHash:      vLog.TxHash.Hex(),
		BlockNumber: vLog.BlockNumber,
		LogIndex:    vLog.Index,
		Timestamp:   timestamp,
	}

	switch vLog.Topics[0] {
	case mintedEventSignature:
		addr, tokenID, err := decodeIndexedArgs(vLog)
		if err != nil {
			return nil, err
		}
		return domain.MintedEvent{
			EventMeta: meta,
			Creator:   addr,
			TokenID:   tokenID,
		}, nil

	case listedEventSignature:
		addr, tokenID, err := decodeIndexedArgs(vLog)
		if err != nil {
			return nil, err
		}
		price, err := decodePrice(vLog)
		if err != nil {
			return nil, err
		}
		return domain.ListedEvent{
			EventMeta: meta,
			Seller:    addr,
			TokenID:   tokenID,
			Price:     price,
		}, nil

	case boughtEventSignature:
		addr, tokenID, err := decodeIndexedArgs(vLog)
		if err != nil {
			return nil, err
		}
		price, err := decodePrice(vLog)
		if err != nil {
			return nil, err
		}
		return domain.BoughtEvent{
			EventMeta: meta,
			Buyer:     addr,
			TokenID:   tokenID,
			Price:     price,
		}, nil

	default:
		return nil, domain.ErrUnknownEventSignature
	}
}

// decodeIndexedArgs extracts the indexed address and token ID topics
func decodeIndexedArgs(vLog types.Log) (string, string, error) {
	if len(vLog.Topics) < 3 {
		return "", "", fmt.Errorf("%w: expected 3 topics, got %d", domain.ErrMalformedEventLog, len(vLog.Topics))
	}

	addr := domain.NormalizeAddress(common.BytesToAddress(vLog.Topics[1].Bytes()).Hex())
	tokenID := new(big.Int).SetBytes(vLog.Topics[2].Bytes()).String()

	return addr, tokenID, nil
}

// decodePrice extracts the non-indexed uint256 price from the data payload
func decodePrice(vLog types.Log) (string, error) {
	if len(vLog.Data) < 32 {
		return "", fmt.Errorf("%w: expected 32 data bytes, got %d", domain.ErrMalformedEventLog, len(vLog.Data))
	}

	return new(big.Int).SetBytes(vLog.Data[:32]).String(), nil
}
