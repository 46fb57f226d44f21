package api

import (
	"errors"
	"fmt"
)

// ErrTimeout indicates a request exceeded its deadline, whether the
// caller's own or the client's default. It is distinguishable from
// transport failures via IsTimeout.
var ErrTimeout = errors.New("request timed out")

// RequestError indicates the backend answered with a non-2xx status.
// Message carries the human-readable text extracted from the JSON body.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
}

// IsTimeout reports whether err (or any error in its chain) is a timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsRequestError reports whether err (or any error in its chain) is a
// RequestError, i.e. the backend was reached but rejected the request.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}
