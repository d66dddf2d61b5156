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
	"github.com/artfolio/marketplace-indexer/internal/metadata"
	"github.com/artfolio/marketplace-indexer/internal/projector"
	"github.com/artfolio/marketplace-indexer/internal/providers/ethereum"
	"github.com/artfolio/marketplace-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	fromBlock  = flag.Uint64("from", 0, "Override the start block (ignores the stored cursor)")
)

func main() {
	flag.Parse()

	config.ChdirRepoRoot()
	cfg, err := config.LoadSyncConfig(*configFile, *envPath)
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
			"service": "backfill",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting historical sync")

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}
	dataStore := store.NewPGStore(db)

	clockAdapter := adapter.NewClock()
	httpAdapter := adapter.NewHTTPClient(cfg.Gateways.HTTPTimeout)

	ethDialer := adapter.NewEthClientDialer()
	ethClient, err := ethDialer.Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum node", zap.Error(err), zap.String("url", cfg.Ethereum.RPCURL))
	}
	chainClient := ethereum.NewChainClient(cfg.Ethereum.ContractAddress, ethClient)
	defer chainClient.Close()

	blockProvider := block.NewProvider(
		ethereum.NewBlockFetcher(chainClient),
		block.Config{
			TTL:         cfg.Ethereum.BlockHeadTTL,
			StaleWindow: cfg.Ethereum.BlockHeadStaleWindow,
		},
		clockAdapter,
	)

	metadataFetcher := metadata.NewFetcher(metadata.Config{
		PrimaryGateway:  cfg.Gateways.Primary,
		FallbackGateway: cfg.Gateways.Fallback,
	}, httpAdapter)

	eventProjector := projector.New(projector.Config{
		ContractAddress: cfg.Ethereum.ContractAddress,
	}, chainClient, metadataFetcher, dataStore, nil)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.InfoCtx(ctx, "Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	startBlock := cfg.Ethereum.StartBlock
	if *fromBlock > 0 {
		startBlock = *fromBlock
		// A manual override restarts the walk from the requested block;
		// re-projection is harmless because all writes are idempotent
		if err := dataStore.SetBlockCursor(ctx, cfg.Ethereum.ContractAddress, startBlock); err != nil {
			logger.FatalCtx(ctx, "Failed to reset cursor", zap.Error(err))
		}
	}

	coordinator := backfill.NewCoordinator(chainClient, blockProvider, eventProjector, dataStore, clockAdapter, backfill.Config{
		ContractAddress:  cfg.Ethereum.ContractAddress,
		StartBlock:       startBlock,
		WindowSize:       cfg.Backfill.WindowSize,
		WindowsPerSecond: cfg.Backfill.WindowsPerSecond,
	})
	if err := coordinator.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.InfoCtx(ctx, "Historical sync interrupted")
			return
		}
		logger.FatalCtx(ctx, "Historical sync failed", zap.Error(err))
	}

	logger.InfoCtx(ctx, "Historical sync complete")
}
