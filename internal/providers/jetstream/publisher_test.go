package jetstream_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artfolio/marketplace-indexer/internal/domain"
	"github.com/artfolio/marketplace-indexer/internal/logger"
	"github.com/artfolio/marketplace-indexer/internal/messaging"
	"github.com/artfolio/marketplace-indexer/internal/mocks"
	"github.com/artfolio/marketplace-indexer/internal/providers/jetstream"
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

// testPublisherMocks contains all the mocks needed for testing the publisher
type testPublisherMocks struct {
	ctrl      *gomock.Controller
	natsJS    *mocks.MockNatsJetStream
	natsConn  *mocks.MockNatsConn
	jetStream *mocks.MockJetStream
	json      *mocks.MockJSON
}

func setupTestPublisher(t *testing.T) *testPublisherMocks {
	ctrl := gomock.NewController(t)

	return &testPublisherMocks{
		ctrl:      ctrl,
		natsJS:    mocks.NewMockNatsJetStream(ctrl),
		natsConn:  mocks.NewMockNatsConn(ctrl),
		jetStream: mocks.NewMockJetStream(ctrl),
		json:      mocks.NewMockJSON(ctrl),
	}
}

func testConfig() jetstream.Config {
	return jetstream.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "MARKETPLACE_ACTIVITIES",
		MaxReconnects:  10,
		ReconnectWait:  time.Second,
		ConnectionName: "test-indexer",
	}
}

func TestNewPublisher_Success(t *testing.T) {
	tm := setupTestPublisher(t)
	defer tm.ctrl.Finish()

	tm.natsJS.EXPECT().
		Connect("nats://localhost:4222", gomock.Any()).
		Return(tm.natsConn, tm.jetStream, nil)

	pub, err := jetstream.NewPublisher(testConfig(), tm.natsJS, tm.json)
	require.NoError(t, err)
	assert.NotNil(t, pub)
}

func TestNewPublisher_ConnectError(t *testing.T) {
	tm := setupTestPublisher(t)
	defer tm.ctrl.Finish()

	connectErr := errors.New("connection refused")
	tm.natsJS.EXPECT().
		Connect("nats://localhost:4222", gomock.Any()).
		Return(nil, nil, connectErr)

	pub, err := jetstream.NewPublisher(testConfig(), tm.natsJS, tm.json)
	assert.ErrorIs(t, err, connectErr)
	assert.Nil(t, pub)
}

func TestPublishActivity_SubjectPerKind(t *testing.T) {
	tm := setupTestPublisher(t)
	defer tm.ctrl.Finish()

	tm.natsJS.EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(tm.natsConn, tm.jetStream, nil)

	pub, err := jetstream.NewPublisher(testConfig(), tm.natsJS, tm.json)
	require.NoError(t, err)

	ctx := context.Background()
	msg := &messaging.ActivityMessage{
		Kind:    domain.ActivityKindBuy,
		TokenID: "42",
		TxHash:  "0xbuy01",
	}
	payload := []byte(`{"kind":"buy"}`)

	tm.json.EXPECT().Marshal(msg).Return(payload, nil)
	tm.jetStream.EXPECT().
		Publish(ctx, "activities.buy", payload).
		Return(&natsjs.PubAck{Stream: "MARKETPLACE_ACTIVITIES"}, nil)

	err = pub.PublishActivity(ctx, msg)
	assert.NoError(t, err)
}

func TestPublishActivity_PublishError(t *testing.T) {
	tm := setupTestPublisher(t)
	defer tm.ctrl.Finish()

	tm.natsJS.EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(tm.natsConn, tm.jetStream, nil)

	pub, err := jetstream.NewPublisher(testConfig(), tm.natsJS, tm.json)
	require.NoError(t, err)

	ctx := context.Background()
	msg := &messaging.ActivityMessage{Kind: domain.ActivityKindMint}

	tm.json.EXPECT().Marshal(msg).Return([]byte(`{}`), nil)
	tm.jetStream.EXPECT().
		Publish(ctx, "activities.mint", gomock.Any()).
		Return(nil, errors.New("no responders"))

	err = pub.PublishActivity(ctx, msg)
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	tm := setupTestPublisher(t)
	defer tm.ctrl.Finish()

	tm.natsJS.EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(tm.natsConn, tm.jetStream, nil)

	pub, err := jetstream.NewPublisher(testConfig(), tm.natsJS, tm.json)
	require.NoError(t, err)

	tm.natsConn.EXPECT().Close()
	pub.Close()
}
