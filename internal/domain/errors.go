package domain

import "errors"

var (
	// ErrUnknownEventSignature is returned when a log's topic does not match
	// any tracked marketplace event
	ErrUnknownEventSignature = errors.New("unknown event signature")

	// ErrMalformedEventLog is returned when a log matches a tracked signature
	// but its topics or data cannot be decoded
	ErrMalformedEventLog = errors.New("malformed event log")

	// ErrRangeTooLarge is returned when the node rejects a log query because
	// the block range yields too many results
	ErrRangeTooLarge = errors.New("block range too large")

	// ErrRateLimited is returned when the node throttles the caller
	ErrRateLimited = errors.New("rate limited by node")

	// ErrNodeUnavailable is returned for transient node failures
	ErrNodeUnavailable = errors.New("node unavailable")
)
