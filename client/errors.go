package client

import (
	"errors"
	"fmt"
)

// ServerError is a failure reported by the cluster node: the response status
// was nonzero and the server attached a message.
type ServerError struct {
	Status  int32
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
}

// ErrConnectionPoisoned marks a connection whose stream position is no
// longer trustworthy after a failed read. The connection cannot be
// resynchronized; callers must open a new one.
var ErrConnectionPoisoned = errors.New("connection poisoned by a previous read failure")

// IsServerError reports whether err is a failure reported by the server
// rather than by the client or the transport.
func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}
