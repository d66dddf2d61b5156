package metadata

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/artfolio/marketplace-indexer/internal/adapter"
	"github.com/artfolio/marketplace-indexer/internal/domain"
	"github.com/artfolio/marketplace-indexer/internal/logger"
)

// Config holds the gateway configuration for metadata resolution
type Config struct {
	// PrimaryGateway resolves ipfs:// URIs first
	PrimaryGateway string
	// FallbackGateway is tried when the primary fails
	FallbackGateway string
}

// Fetcher resolves a token URI into descriptive metadata. Metadata is
// best-effort: Fetch never returns an error, the bool reports whether real
// metadata was resolved or the defaults were substituted
//
//go:generate mockgen -source=fetcher.go -destination=../mocks/metadata.go -package=mocks -mock_names=Fetcher=MockMetadataFetcher
type Fetcher interface {
	Fetch(ctx context.Context, uri string, tokenID string) (domain.TokenMetadata, bool)
}

type fetcher struct {
	config Config
	http   adapter.HTTPClient
}

// NewFetcher creates a metadata fetcher with gateway fallback
func NewFetcher(cfg Config, httpClient adapter.HTTPClient) Fetcher {
	if cfg.PrimaryGateway == "" {
		cfg.PrimaryGateway = domain.DefaultPrimaryIPFSGateway
	}
	if cfg.FallbackGateway == "" {
		cfg.FallbackGateway = domain.DefaultFallbackIPFSGateway
	}

	return &fetcher{
		config: cfg,
		http:   httpClient,
	}
}

// rawMetadata is the wire shape of ERC721-style token metadata
type rawMetadata struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Attributes  []rawAttribute `json:"attributes"`
}

type rawAttribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// Fetch resolves a token URI, trying the primary gateway then the fallback.
// On failure it returns degraded defaults and false so the caller can log
// the gap without blocking projection
func (f *fetcher) Fetch(ctx context.Context, uri string, tokenID string) (domain.TokenMetadata, bool) {
	defaults := domain.TokenMetadata{
		Name:   domain.DefaultTokenName,
		Traits: []domain.Trait{},
	}

	if uri == "" {
		return defaults, false
	}

	// ERC1155-style {id} placeholder substitution
	uri = strings.ReplaceAll(uri, "{id}", tokenID)

	for _, gateway := range f.gateways(uri) {
		url := resolveURI(uri, gateway)

		var raw rawMetadata
		if err := f.http.Get(ctx, url, &raw); err != nil {
			logger.WarnCtx(ctx, "Metadata fetch failed",
				zap.String("url", url),
				zap.Error(err))
			continue
		}

		return normalize(raw, gateway), true
	}

	return defaults, false
}

// gateways returns the gateways to try for a URI. Plain http(s) URIs need
// no gateway and get a single attempt
func (f *fetcher) gateways(uri string) []string {
	if strings.HasPrefix(uri, "ipfs://") {
		return []string{f.config.PrimaryGateway, f.config.FallbackGateway}
	}
	return []string{f.config.PrimaryGateway}
}

// resolveURI rewrites an ipfs:// URI through a gateway
func resolveURI(uri string, gateway string) string {
	if cid, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		return fmt.Sprintf("%s/ipfs/%s", strings.TrimSuffix(gateway, "/"), cid)
	}
	return uri
}

// normalize maps wire metadata onto the domain type, rewriting an embedded
// ipfs:// image through whichever gateway just succeeded
func normalize(raw rawMetadata, gateway string) domain.TokenMetadata {
	meta := domain.TokenMetadata{
		Name:        raw.Name,
		Description: raw.Description,
		ImageURL:    resolveURI(raw.Image, gateway),
		Traits:      make([]domain.Trait, 0, len(raw.Attributes)),
	}

	if meta.Name == "" {
		meta.Name = domain.DefaultTokenName
	}

	for _, attr := range raw.Attributes {
		if attr.TraitType == "" {
			continue
		}
		meta.Traits = append(meta.Traits, domain.Trait{
			TraitType: attr.TraitType,
			Value:     fmt.Sprint(attr.Value),
		})
	}

	return meta
}
