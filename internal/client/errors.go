package client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// APIError is a 4xx answer from the service that carried a detail message.
// Its message is the detail itself so it can be shown as-is.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

// TransportError covers everything between the client and a usable answer:
// the service is unreachable, timed out, the circuit is open, or it answered
// with a status and no detail.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("calculator service returned status %d: %v", e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("calculator service returned status %d", e.StatusCode)
	case isTimeout(e.Err):
		return "calculator service timed out"
	default:
		return fmt.Sprintf("calculator service unavailable: %v", e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
