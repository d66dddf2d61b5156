package domain

const (
	// Gateway constants
	DefaultPrimaryIPFSGateway  = "https://gateway.pinata.cloud"
	DefaultFallbackIPFSGateway = "https://ipfs.io"

	// Blockchain constants
	EthereumZeroAddress = "0x0000000000000000000000000000000000000000"

	// UnknownAddress is recorded as the counterparty when the replica has no
	// snapshot to recover the real address from
	UnknownAddress = "unknown"

	// DefaultTokenName is used when metadata cannot be resolved
	DefaultTokenName = "unnamed"
)
