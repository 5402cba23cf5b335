// Package transport is the HTTP core of the LiteAPI client.
//
// A Transport talks to one destination (data, booking or dashboard API). Every
// call goes through the same pipeline:
//
//	Get/Post/Put -> retry policy -> executor (one HTTP round trip)
//	             -> interpreter (envelope unwrapping) -> data or typed error
//
// Requests
//   - X-API-Key and Accept: application/json are sent on every request.
//   - GET payloads are encoded as a query string; list values are comma-joined.
//   - POST/PUT payloads are JSON encoded; a nil payload is sent as {}.
//
// Responses
//   - 2xx returns the envelope's data field verbatim (nil when absent or null).
//   - Other statuses become an *APIError whose Kind follows the status:
//     401 authentication, 404 not_found, 422 validation, 429 rate_limit,
//     other 4xx client, 5xx server, anything else api.
//
// Retries
//   - Only statuses 429, 500, 502, 503 and 504 are retried, up to MaxRetries
//     additional attempts per call.
//   - Delay before retry n is Interval * BackoffFactor^n, capped at MaxInterval,
//     with ±Randomness jitter. A larger Retry-After header wins; a Retry-After
//     beyond MaxInterval stops retrying.
//   - Timeouts and connection failures surface as *NetworkError without retry
//     unless RetryPolicy.NetworkErrors is set.
//
// A Transport is safe for concurrent use.
package transport
