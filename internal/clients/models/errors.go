package models

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitedError is raised when github reports the rate limit as exhausted,
// the caller decides whether to wait RetryAfter and start over.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("github rate limit exhausted, retry after %s", e.RetryAfter.Round(time.Second))
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Resource)
}

type RequestFailedError struct {
	StatusCode int
	Url        string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.Url, e.StatusCode)
}

// DecodeFailedError means a blob came back empty or not base64 encoded.
type DecodeFailedError struct {
	Path   string
	Reason string
}

func (e *DecodeFailedError) Error() string {
	return fmt.Sprintf("error decoding content of %s: %s", e.Path, e.Reason)
}

// ExtractionFailedError means the reasoning service returned something that
// doesn't parse into the requested schema. Discovery phases degrade on it,
// a deep assessment converts it into a fallback result.
type ExtractionFailedError struct {
	Kind    string
	RawText string
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("%s extraction returned unparsable output", e.Kind)
}

// IsFatalFetchError reports whether an error means the whole run can't make
// progress, rather than a single phase coming up empty.
func IsFatalFetchError(err error) bool {
	var rateLimited *RateLimitedError
	var notFound *NotFoundError

	return errors.As(err, &rateLimited) || errors.As(err, &notFound)
}
