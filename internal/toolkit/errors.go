package toolkit

import (
	"errors"
	"fmt"
)

// ErrBridgeClosed is returned by calls made after Close.
var ErrBridgeClosed = errors.New("toolkit bridge closed")

// BridgeError is an exception raised inside the bridge process, as opposed to
// a status code returned by the toolkit.
type BridgeError struct {
	Op      string
	Message string
}

func (e *BridgeError) Error() string { return fmt.Sprintf("rknn.%s raised: %s", e.Op, e.Message) }

// IsBridgeError reports whether err came from the bridge process itself.
func IsBridgeError(err error) bool {
	var be *BridgeError
	return errors.As(err, &be)
}
