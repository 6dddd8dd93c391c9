package api

import "net/http"

// StatusCodeRange is the class of a HTTP status code.
type StatusCodeRange int

const (
	Status1xx StatusCodeRange = iota
	Status2xx
	Status3xx
	Status4xx
	Status5xx
	StatusUnknown
)

func asStatusCodeRange(statusCode int) StatusCodeRange {
	switch {
	case 100 <= statusCode && statusCode < 200:
		return Status1xx
	case 200 <= statusCode && statusCode < 300:
		return Status2xx
	case 300 <= statusCode && statusCode < 400:
		return Status3xx
	case 400 <= statusCode && statusCode < 500:
		return Status4xx
	case 500 <= statusCode && statusCode < 600:
		return Status5xx
	default:
		return StatusUnknown
	}
}

// retryable reports whether a response may succeed when re-sent.
//
// Client errors are not retryable. Server errors and gateway hiccups are.
func retryable(resp *http.Response) bool {
	return asStatusCodeRange(resp.StatusCode) == Status5xx
}
