package weather

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed fetch.
type ErrorKind string

const (
	KindInvalidCredential ErrorKind = "invalid_credential"
	KindLocationNotFound  ErrorKind = "location_not_found"
	KindRateLimited       ErrorKind = "rate_limited"
	KindProviderError     ErrorKind = "provider_error"
	KindTransport         ErrorKind = "transport_error"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindMissingCredential ErrorKind = "missing_credential"
)

var (
	ErrInvalidCredential = errors.New("invalid API key: check that the key is correct, that it has been activated (new keys take 5-10 minutes), and that the account has not exceeded its quota")
	ErrLocationNotFound  = errors.New("location not found")
	ErrRateLimited       = errors.New("API rate limit exceeded, try again later")
	ErrProviderError     = errors.New("provider error")
	ErrTransport         = errors.New("transport error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrMissingCredential = errors.New("an API key is required")
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidCredential: ErrInvalidCredential,
	KindLocationNotFound:  ErrLocationNotFound,
	KindRateLimited:       ErrRateLimited,
	KindProviderError:     ErrProviderError,
	KindTransport:         ErrTransport,
	KindMalformedResponse: ErrMalformedResponse,
	KindMissingCredential: ErrMissingCredential,
}

// FetchError is returned by every Provider.Fetch failure. All kinds are terminal
// for the attempt; nothing is retried automatically.
type FetchError struct {
	Kind   ErrorKind
	Status int    // HTTP status, 0 when no response was received
	Body   string // response body for ProviderError
	Err    error  // underlying cause
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindProviderError:
		return fmt.Sprintf("failed to fetch weather data: %d - %s", e.Status, e.Body)
	case KindTransport, KindMalformedResponse:
		if e.Err != nil {
			return fmt.Sprintf("%v: %v", kindSentinels[e.Kind], e.Err)
		}
	}
	if s, ok := kindSentinels[e.Kind]; ok {
		return s.Error()
	}
	return string(e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel belonging to the error's kind.
func (e *FetchError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// NewFetchError builds a FetchError of the given kind.
func NewFetchError(kind ErrorKind, err error) *FetchError {
	return &FetchError{Kind: kind, Err: err}
}

// ErrorKindOf reports the kind of err, defaulting to KindTransport for errors
// that did not come from a provider.
func ErrorKindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindTransport
}
