package transport

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error is implemented by every failure the transport returns after a request
// was attempted.
type Error interface {
	error
	Kind() ErrorKind
}

// ErrorKind names the failure category of an Error.
type ErrorKind string

const (
	KindAPI            ErrorKind = "api"
	KindClient         ErrorKind = "client"
	KindAuthentication ErrorKind = "authentication"
	KindNotFound       ErrorKind = "not_found"
	KindValidation     ErrorKind = "validation"
	KindRateLimit      ErrorKind = "rate_limit"
	KindServer         ErrorKind = "server"
	KindNetwork        ErrorKind = "network"
)

// Category folds the 4xx specializations into KindClient. KindServer and
// KindNetwork are their own category; everything else is KindAPI.
func (k ErrorKind) Category() ErrorKind {
	switch k {
	case KindClient, KindAuthentication, KindNotFound, KindValidation, KindRateLimit:
		return KindClient
	case KindServer, KindNetwork:
		return k
	default:
		return KindAPI
	}
}

// Sentinels for errors.Is. An *APIError matches ErrAPI, its category sentinel
// (ErrClient or ErrServer) and its kind sentinel.
var (
	ErrAPI            = errors.New("liteapi: api error")
	ErrClient         = errors.New("liteapi: client error")
	ErrServer         = errors.New("liteapi: server error")
	ErrAuthentication = errors.New("liteapi: authentication error")
	ErrNotFound       = errors.New("liteapi: not found")
	ErrValidation     = errors.New("liteapi: validation error")
	ErrRateLimit      = errors.New("liteapi: rate limit exceeded")
	ErrNetwork        = errors.New("liteapi: network error")
	ErrTimeout        = errors.New("liteapi: request timed out")
)

var kindSentinels = map[ErrorKind]error{
	KindAPI:            ErrAPI,
	KindClient:         ErrClient,
	KindAuthentication: ErrAuthentication,
	KindNotFound:       ErrNotFound,
	KindValidation:     ErrValidation,
	KindRateLimit:      ErrRateLimit,
	KindServer:         ErrServer,
	KindNetwork:        ErrNetwork,
}

// APIError is returned when the service answered with a non-success status
// or with a body that could not be interpreted.
type APIError struct {
	kind ErrorKind

	// Status is the HTTP status code.
	Status int
	// Code is the provider error code from error.code; numeric codes are
	// rendered in decimal. Empty when absent.
	Code string
	// Message is error.message, else the top-level message, else "Unknown error".
	Message string
	// Body is the parsed JSON object of the response, nil when the body was
	// not a JSON object.
	Body map[string]any
	// RawBody is the response body as received.
	RawBody []byte
}

// Kind reports the status-derived kind of the error.
func (e *APIError) Kind() ErrorKind {
	return e.kind
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s error: %s (status: %d", e.kind, e.Message, e.Status)
	if e.Code != "" {
		fmt.Fprintf(&b, ", code: %s", e.Code)
	}
	b.WriteByte(')')
	return b.String()
}

// Is matches ErrAPI, the category sentinel and the kind sentinel.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAPI:
		return true
	case ErrClient:
		return e.kind.Category() == KindClient
	default:
		s, ok := kindSentinels[e.kind]
		return ok && target == s
	}
}

// IsClientError reports whether the error belongs to the 4xx family.
func (e *APIError) IsClientError() bool {
	return e.kind.Category() == KindClient
}

// IsServerError reports whether the error belongs to the 5xx family.
func (e *APIError) IsServerError() bool {
	return e.kind == KindServer
}

// NetworkReason tells why no response was received.
type NetworkReason string

const (
	ReasonTimeout          NetworkReason = "timeout"
	ReasonConnectionFailed NetworkReason = "connection_failed"
	ReasonCanceled         NetworkReason = "canceled"
	ReasonReadFailed       NetworkReason = "read_failed"
)

// NetworkError is returned when the request did not produce a usable response.
type NetworkError struct {
	Reason  NetworkReason
	Message string
	// Timeout is the configured request timeout for ReasonTimeout errors.
	Timeout time.Duration
	Err     error
}

func (e *NetworkError) Kind() ErrorKind {
	return KindNetwork
}

func (e *NetworkError) Error() string {
	var b strings.Builder
	b.WriteString("network error: ")
	b.WriteString(e.Message)
	if e.Reason == ReasonTimeout && e.Timeout > 0 {
		fmt.Fprintf(&b, " (timeout: %v)", e.Timeout)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is matches ErrNetwork, and ErrTimeout for timeouts.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork || (target == ErrTimeout && e.Reason == ReasonTimeout)
}

func newTimeoutError(timeout time.Duration, cause error) *NetworkError {
	return &NetworkError{Reason: ReasonTimeout, Message: "request timed out", Timeout: timeout, Err: cause}
}

func newConnectionError(cause error) *NetworkError {
	return &NetworkError{Reason: ReasonConnectionFailed, Message: "connection failed", Err: cause}
}

func newCanceledError(cause error) *NetworkError {
	return &NetworkError{Reason: ReasonCanceled, Message: "request canceled", Err: cause}
}

func newReadError(cause error) *NetworkError {
	return &NetworkError{Reason: ReasonReadFailed, Message: "failed to read response body", Err: cause}
}

// IsKind reports whether err is a transport Error of the given kind. Category
// kinds also match their specializations, so IsKind(err, KindClient) is true
// for a not_found error.
func IsKind(err error, kind ErrorKind) bool {
	if err == nil {
		return false
	}
	var tErr Error
	if !errors.As(err, &tErr) {
		return false
	}
	k := tErr.Kind()
	return k == kind || (kind == KindClient && k.Category() == KindClient)
}

// StatusCode returns the HTTP status carried by an *APIError in err's chain.
func StatusCode(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}

// IsSuccessStatus checks if a status code represents success (2xx)
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// IsRetryableStatus reports whether a response with this status is retried.
func IsRetryableStatus(statusCode int) bool {
	switch statusCode {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
