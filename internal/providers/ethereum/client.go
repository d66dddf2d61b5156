package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/artfolio/marketplace-indexer/internal/adapter"
	"github.com/artfolio/marketplace-indexer/internal/domain"
)

// ChainClient is the marketplace-contract view of the chain: log queries
// and subscriptions scoped to the contract, plus the view calls used to
// enrich snapshots
//
//go:generate mockgen -source=client.go -destination=../../mocks/chain_client.go -package=mocks -mock_names=ChainClient=MockChainClient
type ChainClient interface {
	// CurrentHeight returns the latest block number
	CurrentHeight(ctx context.Context) (uint64, error)

	// BlockTimestamp returns the timestamp of a block
	BlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)

	// FilterMarketplaceLogs fetches the contract's marketplace event logs
	// in [fromBlock, toBlock]. Node rejections are classified into
	// domain.ErrRangeTooLarge, domain.ErrRateLimited or domain.ErrNodeUnavailable
	FilterMarketplaceLogs(ctx context.Context, fromBlock, toBlock uint64) ([]types.Log, error)

	// SubscribeMarketplaceLogs subscribes to the contract's marketplace event logs
	SubscribeMarketplaceLogs(ctx context.Context, ch chan<- types.Log) (ethereum.Subscription, error)

	// TokenURI fetches tokenURI(uint256) from the contract
	TokenURI(ctx context.Context, tokenID string) (string, error)

	// RoyaltyPercent fetches royalties(uint256) from the contract
	RoyaltyPercent(ctx context.Context, tokenID string) (int16, error)

	// ReceiptTxHash confirms a log's transaction is mined and returns its
	// canonical transaction hash
	ReceiptTxHash(ctx context.Context, vLog types.Log) (string, error)

	// Close closes the connection
	Close()
}

type chainClient struct {
	contract common.Address
	client   adapter.EthClient
}

// NewChainClient creates a chain client bound to a marketplace contract address
func NewChainClient(contractAddress string, client adapter.EthClient) ChainClient {
	return &chainClient{
		contract: common.HexToAddress(contractAddress),
		client:   client,
	}
}

// CurrentHeight returns the latest block number
func (c *chainClient) CurrentHeight(ctx context.Context) (uint64, error) {
	header, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, classifyNodeError(err)
	}
	return header.Number.Uint64(), nil
}

// BlockTimestamp returns the timestamp of a block
func (c *chainClient) BlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	header, err := c.client.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return time.Time{}, classifyNodeError(err)
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil
}

// FilterMarketplaceLogs fetches the contract's marketplace event logs in [fromBlock, toBlock]
func (c *chainClient) FilterMarketplaceLogs(ctx context.Context, fromBlock, toBlock uint64) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{c.contract},
		Topics:    [][]common.Hash{MarketplaceEventSignatures()},
	}

	logs, err := c.client.FilterLogs(ctx, query)
	if err != nil {
		return nil, classifyNodeError(err)
	}
	return logs, nil
}

// SubscribeMarketplaceLogs subscribes to the contract's marketplace event logs
func (c *chainClient) SubscribeMarketplaceLogs(ctx context.Context, ch chan<- types.Log) (ethereum.Subscription, error) {
	query := ethereum.FilterQuery{
		Addresses: []common.Address{c.contract},
		Topics:    [][]common.Hash{MarketplaceEventSignatures()},
	}

	sub, err := c.client.SubscribeFilterLogs(ctx, query, ch)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to marketplace logs: %w", err)
	}
	return sub, nil
}

// TokenURI fetches tokenURI(uint256) from the contract
func (c *chainClient) TokenURI(ctx context.Context, tokenID string) (string, error) {
	// tokenURI(uint256) returns (string)
	tokenURIABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"tokenURI","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return "", fmt.Errorf("failed to parse ABI: %w", err)
	}

	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return "", fmt.Errorf("invalid token ID: %s", tokenID)
	}

	data, err := tokenURIABI.Pack("tokenURI", id)
	if err != nil {
		return "", fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &c.contract,
		Data: data,
	}, nil)
	if err != nil {
		return "", classifyNodeError(err)
	}

	var uri string
	if err := tokenURIABI.UnpackIntoInterface(&uri, "tokenURI", result); err != nil {
		return "", fmt.Errorf("failed to unpack result: %w", err)
	}

	return uri, nil
}

// RoyaltyPercent fetches royalties(uint256) from the contract
func (c *chainClient) RoyaltyPercent(ctx context.Context, tokenID string) (int16, error) {
	// royalties(uint256) returns (uint256)
	royaltiesABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"royalties","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return 0, fmt.Errorf("failed to parse ABI: %w", err)
	}

	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return 0, fmt.Errorf("invalid token ID: %s", tokenID)
	}

	data, err := royaltiesABI.Pack("royalties", id)
	if err != nil {
		return 0, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &c.contract,
		Data: data,
	}, nil)
	if err != nil {
		return 0, classifyNodeError(err)
	}

	royalty := new(big.Int)
	if err := royaltiesABI.UnpackIntoInterface(&royalty, "royalties", result); err != nil {
		return 0, fmt.Errorf("failed to unpack result: %w", err)
	}

	if !royalty.IsInt64() || royalty.Int64() > 100 {
		return 0, fmt.Errorf("royalty out of range: %s", royalty.String())
	}

	return int16(royalty.Int64()), nil
}

// ReceiptTxHash confirms a log's transaction is mined and returns its canonical hash
func (c *chainClient) ReceiptTxHash(ctx context.Context, vLog types.Log) (string, error) {
	receipt, err := c.client.TransactionReceipt(ctx, vLog.TxHash)
	if err != nil {
		return "", classifyNodeError(err)
	}
	return receipt.TxHash.Hex(), nil
}

// Close closes the connection
func (c *chainClient) Close() {
	if c.client == nil {
		return
	}
	c.client.Close()
}

// classifyNodeError maps node error messages onto the indexer error taxonomy
func classifyNodeError(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "query returned more than 10000 results") ||
		strings.Contains(msg, "query timeout exceeded") ||
		strings.Contains(msg, "too many results") ||
		strings.Contains(msg, "exceeded maximum") ||
		strings.Contains(msg, "block range") {
		return fmt.Errorf("%w: %v", domain.ErrRangeTooLarge, err)
	}

	if strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") {
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	return fmt.Errorf("%w: %v", domain.ErrNodeUnavailable, err)
}
