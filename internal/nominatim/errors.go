package nominatim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter matches every *InvalidParameterError via errors.Is.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrRequestFailed matches every *RequestError via errors.Is.
	ErrRequestFailed = errors.New("nominatim request failed")
	// ErrEmptyBaseURL is returned by New when no base URL is configured.
	ErrEmptyBaseURL = errors.New("nominatim base url is required")
	// ErrNotJSON is returned when JSON decoding is requested for a non-JSON body.
	ErrNotJSON = errors.New("nominatim response is not json")
)

// InvalidParameterError reports a builder argument that violates its constraint.
// It is produced before any network call.
type InvalidParameterError struct {
	Param  string
	Value  interface{}
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q (%v): %s", e.Param, e.Value, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// RequestError reports a failed round trip: either a non-2xx status, in which
// case StatusCode and Body are set, or a transport failure, in which case
// StatusCode is 0 and Err holds the cause.
type RequestError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("nominatim %s /%s: %v", e.Method, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("nominatim %s /%s: status %d", e.Method, e.Endpoint, e.StatusCode)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}
