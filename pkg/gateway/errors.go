package gateway

import (
	"errors"
	"fmt"
)

// ErrUnauthorized signals a 401/403 from the remote service. The caller
// owns credential refresh; this layer only reports it.
var ErrUnauthorized = errors.New("gateway: unauthorized")

// StatusError is a non-2xx response with whatever detail the service
// body carried.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("gateway: unexpected status %d", e.StatusCode)
}
