package telemetry

import "context"

// ResultCode is the outcome of one batch send. Zero means success;
// any non-zero value identifies a failure class chosen by the
// transport (an HTTP status, or 1 for connection-level errors).
type ResultCode int

// Well-known result codes. Transports may return any non-zero value
// (HTTP statuses pass through unchanged); these two are shared.
const (
	// ResultOK is the code transports return on a successful send.
	ResultOK ResultCode = 0

	// ResultSendFailed is the generic code for connection-level
	// failures where no backend status is available.
	ResultSendFailed ResultCode = 1
)

// OK reports whether the code indicates a successful send.
func (c ResultCode) OK() bool {
	return c == ResultOK
}

// Transport ships an assembled batch to the metrics backend.
//
// SendBatch is synchronous: it returns only once the attempt has
// concluded. The batch is valid for the duration of the call only;
// the caller clears it immediately after SendBatch returns, so
// transports must not retain references to it.
type Transport interface {
	// SendBatch encodes and uploads every sample in the batch.
	// It never panics on delivery failure; failures surface as a
	// non-zero ResultCode.
	SendBatch(ctx context.Context, batch *Batch) ResultCode

	// IsConnected reports whether the transport believes its link to
	// the backend is usable. Used for status display only; a true
	// result does not guarantee the next send succeeds.
	IsConnected() bool
}
