package projector_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artfolio/marketplace-indexer/internal/domain"
	"github.com/artfolio/marketplace-indexer/internal/logger"
	"github.com/artfolio/marketplace-indexer/internal/messaging"
	"github.com/artfolio/marketplace-indexer/internal/mocks"
	"github.com/artfolio/marketplace-indexer/internal/projector"
	"github.com/artfolio/marketplace-indexer/internal/store"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

const testContract = "0x9999999999999999999999999999999999999999"

var eventTime = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type testProjectorMocks struct {
	ctrl      *gomock.Controller
	chain     *mocks.MockChainClient
	metadata  *mocks.MockMetadataFetcher
	store     *mocks.MockStore
	publisher *mocks.MockPublisher
	projector projector.Projector
}

func setupTestProjector(t *testing.T) *testProjectorMocks {
	ctrl := gomock.NewController(t)

	tm := &testProjectorMocks{
		ctrl:      ctrl,
		chain:     mocks.NewMockChainClient(ctrl),
		metadata:  mocks.NewMockMetadataFetcher(ctrl),
		store:     mocks.NewMockStore(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
	}

	tm.projector = projector.New(
		projector.Config{ContractAddress: testContract},
		tm.chain,
		tm.metadata,
		tm.store,
		tm.publisher,
	)

	return tm
}

func mintedEvent() domain.MintedEvent {
	return domain.MintedEvent{
		EventMeta: domain.EventMeta{
			TxHash:      "0xmint01",
			BlockNumber: 100,
			LogIndex:    0,
			Timestamp:   eventTime,
		},
		Creator: "0x1111111111111111111111111111111111111111",
		TokenID: "42",
	}
}

func TestApply_Mint(t *testing.T) {
	tm := setupTestProjector(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	ev := mintedEvent()
	meta := domain.TokenMetadata{Name: "Sunset #42", Traits: []domain.Trait{}}

	tm.store.EXPECT().HasActivity(ctx, ev.TxHash).Return(false, nil)
	tm.chain.EXPECT().TokenURI(ctx, "42").Return("ipfs://QmTest", nil)
	tm.chain.EXPECT().RoyaltyPercent(ctx, "42").Return(int16(10), nil)
	tm.metadata.EXPECT().Fetch(ctx, "ipfs://QmTest", "42").Return(meta, true)
	tm.store.EXPECT().CreateMint(ctx, store.MintRecord{
		TokenID:         "42",
		ContractAddress: testContract,
		Creator:         ev.Creator,
		RoyaltyPercent:  10,
		TokenURI:        "ipfs://QmTest",
		Metadata:        meta,
		TxHash:          ev.TxHash,
		BlockNumber:     100,
		Timestamp:       eventTime,
	}).Return(true, nil)
	tm.publisher.EXPECT().PublishActivity(ctx, &messaging.ActivityMessage{
		Kind:        domain.ActivityKindMint,
		TokenID:     "42",
		FromAddress: domain.EthereumZeroAddress,
		ToAddress:   ev.Creator,
		Price:       "0",
		TxHash:      ev.TxHash,
		BlockNumber: 100,
		Timestamp:   eventTime,
	}).Return(nil)

	err := tm.projector.Apply(ctx, ev)
	assert.NoError(t, err)
}

func TestApply_Mint_AlreadyProjected(t *testing.T) {
	tm := setupTestProjector(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	ev := mintedEvent()

	// Duplicate delivery short-circuits before any chain or metadata read
	tm.store.EXPECT().HasActivity(ctx, ev.TxHash).Return(true, nil)

	err := tm.projector.Apply(ctx, ev)
	assert.NoError(t, err)
}

func TestApply_Mint_DegradedMetadata(t *testing.T) {
	tm := setupTestProjector(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	ev := mintedEvent()
	defaults := domain.TokenMetadata{Name: domain.DefaultTokenName, Traits: []domain.Trait{}}

	tm.store.EXPECT().HasActivity(ctx, ev.TxHash).Return(false, nil)
	tm.chain.EXPECT().TokenURI(ctx, "42").Return("ipfs://QmTest", nil)
	tm.chain.EXPECT().RoyaltyPercent(ctx, "42").Return(int16(10), nil)
	tm.metadata.EXPECT().Fetch(ctx, "ipfs://QmTest", "42").Return(defaults, false)
	tm.store.EXPECT().CreateMint(ctx, gomock.Any()).Return(true, nil)
	tm.publisher.EXPECT().PublishActivity(ctx, gomock.Any()).Return(nil)

	// Metadata failure degrades the snapshot but never blocks projection
	err := tm.projector.Apply(ctx, ev)
	assert.NoError(t, err)
}

func TestApply_Mint_TokenURIFailureIsRetryable(t *testing.T) {
	tm := setupTestProjector(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	ev := mintedEvent()

	tm.store.EXPECT().HasActivity(ctx, ev.TxHash).Return(false, nil)
	tm.chain.EXPECT().TokenURI(ctx, "42").Return("", domain.ErrNodeUnavailable)

	err := tm.projector.Apply(ctx, ev)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNodeUnavailable)
}

func TestApply_Mint_DuplicateInsideTransaction(t *testing.T) {
	tm := setupTestProjector(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	ev := mintedEvent()

	tm.store.EXPECT().HasActivity(ctx, ev.TxHash).Return(false, nil)
	tm.chain.EXPECT().TokenURI(ctx, "42").Return("ipfs://QmTest", nil)
	tm.chain.EXPECT().RoyaltyPercent(ctx, "42").Return(int16(10), nil)
	tm.metadata.EXPECT().Fetch(ctx, "ipfs://QmTest", "42").Return(domain.TokenMetadata{}, true)
	tm.store.EXPECT().CreateMint(ctx, gomock.Any()).Return(false, nil)

	// Not created means a concurrent writer won, nothing to publish
	err := tm.projector.Apply(ctx, ev)
	assert.NoError(t, err)
}

func TestApply_Listing(t *testing.T) {
	tm := setupTestProjector(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	ev := domain.ListedEvent{
		EventMeta: domain.EventMeta{
			TxHash:      "0xlist01",
			BlockNumber: 101,
			Timestamp:   eventTime,
		},
		Seller:  "0x1111111111111111111111111111111111111111",
		TokenID: "42",
		Price:   "1500000000000000000",
	}

	tm.store.EXPECT().UpdateListing(ctx, store.ListingRecord{
		TokenID:         "42",
		ContractAddress: testContract,
		Seller:          ev.Seller,
		Price:           ev.Price,
		TxHash:          ev.TxHash,
		BlockNumber:     101,
		Timestamp:       eventTime,
	}).Return(true, nil)
	tm.publisher.EXPECT().PublishActivity(ctx, &messaging.ActivityMessage{
		Kind:        domain.ActivityKindList,
		TokenID:     "42",
		FromAddress: ev.Seller,
		ToAddress:   "",
		Price:       ev.Price,
		TxHash:      ev.TxHash,
		BlockNumber: 101,
		Timestamp:   eventTime,
	}).Return(nil)

	err := tm.projector.Apply(ctx, ev)
	assert.NoError(t, err)
}

func TestApply_Purchase(t *testing.T) {
	tm := setupTestProjector(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	ev := domain.BoughtEvent{
		EventMeta: domain.EventMeta{
			TxHash:      "0xbuy01",
			BlockNumber: 102,
			Timestamp:   eventTime,
		},
		Buyer:   "0x2222222222222222222222222222222222222222",
		TokenID: "42",
		Price:   "1500000000000000000",
	}
	seller := "0x1111111111111111111111111111111111111111"

	tm.store.EXPECT().UpdatePurchase(ctx, store.PurchaseRecord{
		TokenID:         "42",
		ContractAddress: testContract,
		Buyer:           ev.Buyer,
		Price:           ev.Price,
		TxHash:          ev.TxHash,
		BlockNumber:     102,
		Timestamp:       eventTime,
	}).Return(true, seller, nil)
	tm.publisher.EXPECT().PublishActivity(ctx, &messaging.ActivityMessage{
		Kind:        domain.ActivityKindBuy,
		TokenID:     "42",
		FromAddress: seller,
		ToAddress:   ev.Buyer,
		Price:       ev.Price,
		TxHash:      ev.TxHash,
		BlockNumber: 102,
		Timestamp:   eventTime,
	}).Return(nil)

	err := tm.projector.Apply(ctx, ev)
	assert.NoError(t, err)
}

func TestApply_PublishFailureDoesNotFailProjection(t *testing.T) {
	tm := setupTestProjector(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	ev := domain.ListedEvent{
		EventMeta: domain.EventMeta{TxHash: "0xlist02", BlockNumber: 103, Timestamp: eventTime},
		Seller:    "0x1111111111111111111111111111111111111111",
		TokenID:   "42",
		Price:     "1",
	}

	tm.store.EXPECT().UpdateListing(ctx, gomock.Any()).Return(true, nil)
	tm.publisher.EXPECT().PublishActivity(ctx, gomock.Any()).Return(errors.New("nats down"))

	err := tm.projector.Apply(ctx, ev)
	assert.NoError(t, err)
}

func TestApply_NilPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	p := projector.New(
		projector.Config{ContractAddress: testContract},
		mocks.NewMockChainClient(ctrl),
		mocks.NewMockMetadataFetcher(ctrl),
		st,
		nil,
	)

	ctx := context.Background()
	st.EXPECT().UpdateListing(ctx, gomock.Any()).Return(true, nil)

	err := p.Apply(ctx, domain.ListedEvent{
		EventMeta: domain.EventMeta{TxHash: "0xlist03", BlockNumber: 104, Timestamp: eventTime},
		Seller:    "0x1111111111111111111111111111111111111111",
		TokenID:   "42",
		Price:     "1",
	})
	assert.NoError(t, err)
}
