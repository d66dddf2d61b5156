package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artfolio/marketplace-indexer/internal/domain"
)

// =============================================================================
// Test Data Builders
// =============================================================================

const (
	testContract = "0x9999999999999999999999999999999999999999"
	testCreator  = "0x1111111111111111111111111111111111111111"
	testBuyer    = "0x2222222222222222222222222222222222222222"
)

var testTimestamp = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// buildMintRecord creates a mint record for a token
func buildMintRecord(tokenID string, blockNumber uint64) MintRecord {
	return MintRecord{
		TokenID:         tokenID,
		ContractAddress: testContract,
		Creator:         testCreator,
		RoyaltyPercent:  10,
		TokenURI:        fmt.Sprintf("ipfs://Qm%s", tokenID),
		Metadata: domain.TokenMetadata{
			Name:        fmt.Sprintf("Token #%s", tokenID),
			Description: "a test token",
			ImageURL:    fmt.Sprintf("https://gateway.example.com/ipfs/QmImg%s", tokenID),
			Traits:      []domain.Trait{{TraitType: "Palette", Value: "Warm"}},
		},
		TxHash:      fmt.Sprintf("0xmint%s", tokenID),
		BlockNumber: blockNumber,
		Timestamp:   testTimestamp,
	}
}

// buildListingRecord creates a listing record for a token
func buildListingRecord(tokenID, seller, price string, blockNumber uint64) ListingRecord {
	return ListingRecord{
		TokenID:         tokenID,
		ContractAddress: testContract,
		Seller:          seller,
		Price:           price,
		TxHash:          fmt.Sprintf("0xlist%s", tokenID),
		BlockNumber:     blockNumber,
		Timestamp:       testTimestamp,
	}
}

// buildPurchaseRecord creates a purchase record for a token
func buildPurchaseRecord(tokenID, buyer, price string, blockNumber uint64) PurchaseRecord {
	return PurchaseRecord{
		TokenID:         tokenID,
		ContractAddress: testContract,
		Buyer:           buyer,
		Price:           price,
		TxHash:          fmt.Sprintf("0xbuy%s", tokenID),
		BlockNumber:     blockNumber,
		Timestamp:       testTimestamp,
	}
}

// =============================================================================
// Test: CreateMint
// =============================================================================

func testCreateMint(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("successful mint creates snapshot and activity", func(t *testing.T) {
		record := buildMintRecord("1", 100)

		created, err := store.CreateMint(ctx, record)
		require.NoError(t, err)
		assert.True(t, created)

		nft, err := store.GetNFTByTokenID(ctx, "1")
		require.NoError(t, err)
		require.NotNil(t, nft)
		assert.Equal(t, testCreator, nft.Owner)
		assert.Equal(t, testCreator, nft.Creator)
		assert.Equal(t, int16(10), nft.RoyaltyPercent)
		assert.Equal(t, "ipfs://Qm1", nft.TokenURI)
		assert.Equal(t, "Token #1", nft.Name)
		assert.False(t, nft.IsListed)
		assert.False(t, nft.Placeholder)

		var traits []domain.Trait
		require.NoError(t, json.Unmarshal(nft.Traits, &traits))
		require.Len(t, traits, 1)
		assert.Equal(t, "Palette", traits[0].TraitType)

		activities, err := store.ListActivitiesByTokenID(ctx, "1")
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, domain.ActivityKindMint, activities[0].EventKind)
		assert.Equal(t, domain.EthereumZeroAddress, activities[0].FromAddress)
		assert.Equal(t, testCreator, activities[0].ToAddress)
		assert.Equal(t, "0", activities[0].Price)
	})

	t.Run("duplicate tx hash is a no-op", func(t *testing.T) {
		record := buildMintRecord("2", 100)

		created, err := store.CreateMint(ctx, record)
		require.NoError(t, err)
		assert.True(t, created)

		// Redelivery with the same tx hash but mutated payload must not
		// touch the snapshot
		record.Creator = "0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"
		created, err = store.CreateMint(ctx, record)
		require.NoError(t, err)
		assert.False(t, created)

		nft, err := store.GetNFTByTokenID(ctx, "2")
		require.NoError(t, err)
		require.NotNil(t, nft)
		assert.Equal(t, testCreator, nft.Creator)

		activities, err := store.ListActivitiesByTokenID(ctx, "2")
		require.NoError(t, err)
		assert.Len(t, activities, 1)
	})

	t.Run("mint enriches a placeholder without disturbing listing state", func(t *testing.T) {
		// Listing observed before the mint
		created, err := store.UpdateListing(ctx, buildListingRecord("3", testCreator, "500", 99))
		require.NoError(t, err)
		require.True(t, created)

		created, err = store.CreateMint(ctx, buildMintRecord("3", 98))
		require.NoError(t, err)
		assert.True(t, created)

		nft, err := store.GetNFTByTokenID(ctx, "3")
		require.NoError(t, err)
		require.NotNil(t, nft)
		assert.False(t, nft.Placeholder)
		assert.Equal(t, testCreator, nft.Creator)
		assert.Equal(t, "Token #3", nft.Name)
		assert.True(t, nft.IsListed)
		assert.Equal(t, "500", nft.ListingPrice)
		assert.Equal(t, testCreator, nft.ListingSeller)
	})

	t.Run("creator address is normalized", func(t *testing.T) {
		record := buildMintRecord("4", 100)
		record.Creator = "0xAAAAaaaaAAAAaaaaAAAAaaaaAAAAaaaaAAAAaaaa"

		created, err := store.CreateMint(ctx, record)
		require.NoError(t, err)
		require.True(t, created)

		nft, err := store.GetNFTByTokenID(ctx, "4")
		require.NoError(t, err)
		require.NotNil(t, nft)
		assert.Equal(t, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", nft.Creator)
	})
}

// =============================================================================
// Test: UpdateListing
// =============================================================================

func testUpdateListing(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("listing marks an existing snapshot", func(t *testing.T) {
		_, err := store.CreateMint(ctx, buildMintRecord("10", 100))
		require.NoError(t, err)

		created, err := store.UpdateListing(ctx, buildListingRecord("10", testCreator, "1500000000000000000", 101))
		require.NoError(t, err)
		assert.True(t, created)

		nft, err := store.GetNFTByTokenID(ctx, "10")
		require.NoError(t, err)
		require.NotNil(t, nft)
		assert.True(t, nft.IsListed)
		assert.Equal(t, "1500000000000000000", nft.ListingPrice)
		assert.Equal(t, testCreator, nft.ListingSeller)

		activities, err := store.ListActivitiesByTokenID(ctx, "10")
		require.NoError(t, err)
		require.Len(t, activities, 2)
		assert.Equal(t, domain.ActivityKindList, activities[0].EventKind)
		assert.Equal(t, testCreator, activities[0].FromAddress)
	})

	t.Run("listing before mint creates a placeholder", func(t *testing.T) {
		created, err := store.UpdateListing(ctx, buildListingRecord("11", testCreator, "42", 101))
		require.NoError(t, err)
		assert.True(t, created)

		nft, err := store.GetNFTByTokenID(ctx, "11")
		require.NoError(t, err)
		require.NotNil(t, nft)
		assert.True(t, nft.Placeholder)
		assert.True(t, nft.IsListed)
		assert.Equal(t, testCreator, nft.Owner)
		assert.Empty(t, nft.Creator)
	})

	t.Run("duplicate listing is a no-op", func(t *testing.T) {
		_, err := store.CreateMint(ctx, buildMintRecord("12", 100))
		require.NoError(t, err)

		record := buildListingRecord("12", testCreator, "100", 101)
		created, err := store.UpdateListing(ctx, record)
		require.NoError(t, err)
		require.True(t, created)

		record.Price = "999"
		created, err = store.UpdateListing(ctx, record)
		require.NoError(t, err)
		assert.False(t, created)

		nft, err := store.GetNFTByTokenID(ctx, "12")
		require.NoError(t, err)
		assert.Equal(t, "100", nft.ListingPrice)
	})
}

// =============================================================================
// Test: UpdatePurchase
// =============================================================================

func testUpdatePurchase(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("purchase transfers ownership and clears marketplace state", func(t *testing.T) {
		_, err := store.CreateMint(ctx, buildMintRecord("20", 100))
		require.NoError(t, err)
		_, err = store.UpdateListing(ctx, buildListingRecord("20", testCreator, "1500", 101))
		require.NoError(t, err)

		created, seller, err := store.UpdatePurchase(ctx, buildPurchaseRecord("20", testBuyer, "1500", 102))
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, testCreator, seller)

		nft, err := store.GetNFTByTokenID(ctx, "20")
		require.NoError(t, err)
		require.NotNil(t, nft)
		assert.Equal(t, testBuyer, nft.Owner)
		assert.False(t, nft.IsListed)
		assert.Equal(t, "0", nft.ListingPrice)
		assert.Empty(t, nft.ListingSeller)
		assert.False(t, nft.IsAuctionActive)
		assert.Equal(t, "0", nft.AuctionHighestBid)
		assert.Empty(t, nft.AuctionHighestBidder)
		assert.Nil(t, nft.AuctionEndTime)

		activities, err := store.ListActivitiesByTokenID(ctx, "20")
		require.NoError(t, err)
		require.Len(t, activities, 3)
		assert.Equal(t, domain.ActivityKindBuy, activities[0].EventKind)
		assert.Equal(t, testCreator, activities[0].FromAddress)
		assert.Equal(t, testBuyer, activities[0].ToAddress)
		assert.Equal(t, "1500", activities[0].Price)
	})

	t.Run("seller falls back to owner when not listed", func(t *testing.T) {
		_, err := store.CreateMint(ctx, buildMintRecord("21", 100))
		require.NoError(t, err)

		created, seller, err := store.UpdatePurchase(ctx, buildPurchaseRecord("21", testBuyer, "1", 102))
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, testCreator, seller)
	})

	t.Run("purchase before mint records unknown seller and a placeholder", func(t *testing.T) {
		created, seller, err := store.UpdatePurchase(ctx, buildPurchaseRecord("22", testBuyer, "1", 102))
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, domain.UnknownAddress, seller)

		nft, err := store.GetNFTByTokenID(ctx, "22")
		require.NoError(t, err)
		require.NotNil(t, nft)
		assert.True(t, nft.Placeholder)
		assert.Equal(t, testBuyer, nft.Owner)

		activities, err := store.ListActivitiesByTokenID(ctx, "22")
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, domain.UnknownAddress, activities[0].FromAddress)
	})

	t.Run("duplicate purchase is a no-op", func(t *testing.T) {
		_, err := store.CreateMint(ctx, buildMintRecord("23", 100))
		require.NoError(t, err)

		record := buildPurchaseRecord("23", testBuyer, "1", 102)
		created, _, err := store.UpdatePurchase(ctx, record)
		require.NoError(t, err)
		require.True(t, created)

		record.Buyer = "0x3333333333333333333333333333333333333333"
		created, _, err = store.UpdatePurchase(ctx, record)
		require.NoError(t, err)
		assert.False(t, created)

		nft, err := store.GetNFTByTokenID(ctx, "23")
		require.NoError(t, err)
		assert.Equal(t, testBuyer, nft.Owner)
	})
}

// =============================================================================
// Test: HasActivity
// =============================================================================

func testHasActivity(t *testing.T, store Store) {
	ctx := context.Background()

	exists, err := store.HasActivity(ctx, "0xmissing")
	require.NoError(t, err)
	assert.False(t, exists)

	record := buildMintRecord("30", 100)
	_, err = store.CreateMint(ctx, record)
	require.NoError(t, err)

	exists, err = store.HasActivity(ctx, record.TxHash)
	require.NoError(t, err)
	assert.True(t, exists)
}

// =============================================================================
// Test: Reads
// =============================================================================

func testGetNFTByTokenID(t *testing.T, store Store) {
	ctx := context.Background()

	nft, err := store.GetNFTByTokenID(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, nft)

	_, err = store.CreateMint(ctx, buildMintRecord("40", 100))
	require.NoError(t, err)

	nft, err = store.GetNFTByTokenID(ctx, "40")
	require.NoError(t, err)
	require.NotNil(t, nft)
	assert.Equal(t, "40", nft.TokenID)
}

func testListNFTsForSale(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.CreateMint(ctx, buildMintRecord("50", 100))
	require.NoError(t, err)
	_, err = store.CreateMint(ctx, buildMintRecord("51", 100))
	require.NoError(t, err)
	_, err = store.UpdateListing(ctx, buildListingRecord("51", testCreator, "10", 101))
	require.NoError(t, err)

	forSale, err := store.ListNFTsForSale(ctx)
	require.NoError(t, err)
	require.Len(t, forSale, 1)
	assert.Equal(t, "51", forSale[0].TokenID)
}

func testListNFTsByOwner(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.CreateMint(ctx, buildMintRecord("60", 100))
	require.NoError(t, err)
	_, err = store.CreateMint(ctx, buildMintRecord("61", 100))
	require.NoError(t, err)
	_, _, err = store.UpdatePurchase(ctx, buildPurchaseRecord("61", testBuyer, "1", 102))
	require.NoError(t, err)

	owned, err := store.ListNFTsByOwner(ctx, testCreator)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "60", owned[0].TokenID)

	// Lookup address is normalized before matching
	owned, err = store.ListNFTsByOwner(ctx, "0x2222222222222222222222222222222222222222")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "61", owned[0].TokenID)
}

func testSearchNFTs(t *testing.T, store Store) {
	ctx := context.Background()

	record := buildMintRecord("70", 100)
	record.Metadata.Name = "Crimson Sunset"
	record.Metadata.Description = "oil on canvas"
	_, err := store.CreateMint(ctx, record)
	require.NoError(t, err)

	other := buildMintRecord("71", 100)
	other.Metadata.Name = "Blue Dawn"
	other.Metadata.Description = "watercolor"
	_, err = store.CreateMint(ctx, other)
	require.NoError(t, err)

	// Match on name, case-insensitive
	results, err := store.SearchNFTs(ctx, "crimson")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "70", results[0].TokenID)

	// Match on description
	results, err = store.SearchNFTs(ctx, "watercolor")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "71", results[0].TokenID)

	results, err = store.SearchNFTs(ctx, "sculpture")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func testListActivities(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.CreateMint(ctx, buildMintRecord("80", 100))
	require.NoError(t, err)
	_, err = store.UpdateListing(ctx, buildListingRecord("80", testCreator, "10", 101))
	require.NoError(t, err)
	_, _, err = store.UpdatePurchase(ctx, buildPurchaseRecord("80", testBuyer, "10", 102))
	require.NoError(t, err)

	activities, err := store.ListActivities(ctx, 10)
	require.NoError(t, err)
	require.Len(t, activities, 3)
	assert.Equal(t, domain.ActivityKindBuy, activities[0].EventKind)
	assert.Equal(t, domain.ActivityKindList, activities[1].EventKind)
	assert.Equal(t, domain.ActivityKindMint, activities[2].EventKind)

	limited, err := store.ListActivities(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func testMaxActivityBlock(t *testing.T, store Store) {
	ctx := context.Background()

	maxBlock, err := store.MaxActivityBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), maxBlock)

	_, err = store.CreateMint(ctx, buildMintRecord("90", 100))
	require.NoError(t, err)
	_, err = store.UpdateListing(ctx, buildListingRecord("90", testCreator, "10", 150))
	require.NoError(t, err)

	maxBlock, err = store.MaxActivityBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), maxBlock)
}

// =============================================================================
// Test: BlockCursor
// =============================================================================

func testBlockCursor(t *testing.T, store Store) {
	ctx := context.Background()

	cursor, err := store.GetBlockCursor(ctx, testContract)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cursor)

	require.NoError(t, store.SetBlockCursor(ctx, testContract, 123))

	cursor, err = store.GetBlockCursor(ctx, testContract)
	require.NoError(t, err)
	assert.Equal(t, uint64(123), cursor)

	// Overwrite advances the cursor
	require.NoError(t, store.SetBlockCursor(ctx, testContract, 456))

	cursor, err = store.GetBlockCursor(ctx, testContract)
	require.NoError(t, err)
	assert.Equal(t, uint64(456), cursor)

	// Cursors are keyed per contract
	cursor, err = store.GetBlockCursor(ctx, "0x8888888888888888888888888888888888888888")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cursor)
}

// =============================================================================
// Suite
// =============================================================================

// RunStoreTests runs the full store suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"CreateMint", testCreateMint},
		{"UpdateListing", testUpdateListing},
		{"UpdatePurchase", testUpdatePurchase},
		{"HasActivity", testHasActivity},
		{"GetNFTByTokenID", testGetNFTByTokenID},
		{"ListNFTsForSale", testListNFTsForSale},
		{"ListNFTsByOwner", testListNFTsByOwner},
		{"SearchNFTs", testSearchNFTs},
		{"ListActivities", testListActivities},
		{"MaxActivityBlock", testMaxActivityBlock},
		{"BlockCursor", testBlockCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
