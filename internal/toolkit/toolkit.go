// Package toolkit is the external call boundary: the four conversion
// operations of the RKNN toolkit, each returning the toolkit's status code.
package toolkit

import (
	"context"

	"rknnc/internal/payload"
)

// StatusOK is the status code of a successful toolkit call.
const StatusOK = 0

// Toolkit drives one stateful toolkit instance. Implementations are not
// reentrant; callers serialize access.
//
// The returned error reports a transport failure (the call could not be
// made); a call the toolkit rejected comes back as a nonzero code.
type Toolkit interface {
	Configure(ctx context.Context, kwargs payload.Payload) (int, error)
	LoadONNX(ctx context.Context, model string, kwargs payload.Payload) (int, error)
	Build(ctx context.Context, kwargs payload.Payload) (int, error)
	Export(ctx context.Context, path string) (int, error)
	Close() error
}
