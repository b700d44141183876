package httpapi

import (
	"errors"
	"fmt"
)

// ResponseError is a non-2xx response from the API, preserved with its status
// code so callers can branch on it.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("api responded with status %d: %s", e.StatusCode, e.Body)
}

// IsStatus reports whether err is a ResponseError carrying the given status.
func IsStatus(err error, statusCode int) bool {
	var respErr *ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == statusCode
}
