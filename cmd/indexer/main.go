package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/artfolio/marketplace-indexer/internal/adapter"
	"github.com/artfolio/marketplace-indexer/internal/backfill"
	"github.com/artfolio/marketplace-indexer/internal/block"
	"github.com/artfolio/marketplace-indexer/internal/config"
	"github.com/artfolio/marketplace-indexer/internal/logger"
	"github.com/artfolio/marketplace-indexer/internal/messaging"
	"github.com/artfolio/marketplace-indexer/internal/metadata"
	"github.com/artfolio/marketplace-indexer/internal/projector"
	"github.com/artfolio/marketplace-indexer/internal/providers/ethereum"
	"github.com/artfolio/marketplace-indexer/internal/providers/jetstream"
	"github.com/artfolio/marketplace-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	config.ChdirRepoRoot()
	cfg, err := config.LoadIndexerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "indexer",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting marketplace indexer")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}
	if err := store.ConfigureConnectionPool(db,
		cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	dataStore := store.NewPGStore(db)
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	httpAdapter := adapter.NewHTTPClient(cfg.Gateways.HTTPTimeout)

	// Dial the node. Subscriptions need the WebSocket endpoint; it serves
	// the query path as well
	nodeURL := cfg.Ethereum.WebSocketURL
	if nodeURL == "" {
		nodeURL = cfg.Ethereum.RPCURL
	}
	ethDialer := adapter.NewEthClientDialer()
	ethClient, err := ethDialer.Dial(ctx, nodeURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum node", zap.Error(err), zap.String("url", nodeURL))
	}
	chainClient := ethereum.NewChainClient(cfg.Ethereum.ContractAddress, ethClient)
	defer chainClient.Close()
	logger.InfoCtx(ctx, "Connected to Ethereum node")

	blockProvider := block.NewProvider(
		ethereum.NewBlockFetcher(chainClient),
		block.Config{
			TTL:         cfg.Ethereum.BlockHeadTTL,
			StaleWindow: cfg.Ethereum.BlockHeadStaleWindow,
		},
		clockAdapter,
	)

	// Activity fan-out is optional
	var publisher messaging.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		defer publisher.Close()
		logger.InfoCtx(ctx, "Connected to NATS JetStream")
	}

	metadataFetcher := metadata.NewFetcher(metadata.Config{
		PrimaryGateway:  cfg.Gateways.Primary,
		FallbackGateway: cfg.Gateways.Fallback,
	}, httpAdapter)

	eventProjector := projector.New(projector.Config{
		ContractAddress: cfg.Ethereum.ContractAddress,
	}, chainClient, metadataFetcher, dataStore, publisher)

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.InfoCtx(ctx, "Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	// Catch up on history before tailing the live stream
	coordinator := backfill.NewCoordinator(chainClient, blockProvider, eventProjector, dataStore, clockAdapter, backfill.Config{
		ContractAddress:  cfg.Ethereum.ContractAddress,
		StartBlock:       cfg.Ethereum.StartBlock,
		WindowSize:       cfg.Backfill.WindowSize,
		WindowsPerSecond: cfg.Backfill.WindowsPerSecond,
	})
	if err := coordinator.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.FatalCtx(ctx, "Backfill failed", zap.Error(err))
	}

	subscriber := ethereum.NewSubscriber(chainClient, blockProvider, eventProjector, ethereum.SubscriberConfig{
		QueueSize:            cfg.Worker.QueueSize,
		MaxRetries:           cfg.Worker.MaxRetries,
		RetryInitialInterval: cfg.Worker.RetryInitialInterval,
	})
	if err := subscriber.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.FatalCtx(ctx, "Live subscription failed", zap.Error(err))
	}

	logger.InfoCtx(ctx, "Indexer stopped")
}
