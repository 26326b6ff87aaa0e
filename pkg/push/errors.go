package push

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is unusable.
	ErrInvalidConfig = errors.New("push: invalid config")
	// ErrGatewayRequestFailed wraps transport-level failures (network errors,
	// timeouts, non-2xx responses).
	ErrGatewayRequestFailed = errors.New("push: gateway request failed")
	// ErrTicketCountMismatch is returned when the gateway acknowledges a chunk
	// with a ticket count different from the message count, breaking the
	// token-to-ticket association for that chunk.
	ErrTicketCountMismatch = errors.New("push: ticket count does not match message count")
	// ErrPartialSend is returned by SendBatch when some chunks failed after
	// earlier chunks already produced tickets. The returned ticket results for
	// the completed chunks are still valid and must be processed.
	ErrPartialSend = errors.New("push: some chunks failed to send")
)
