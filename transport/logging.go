package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gaborage/go-liteapi/logger"
)

// logRequest logs one outgoing attempt.
func (t *Transport) logRequest(req *http.Request, body []byte, requestID string, attempt int) {
	logEvent := t.logger.Debug().
		Str("direction", "outbound").
		Str("destination", string(t.destination)).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID).
		Int("attempt", attempt+1).
		Interface("headers", req.Header)

	if t.logPayloads && len(body) > 0 {
		logEvent = t.withPayload(logEvent, body)
	}

	logEvent.Msg("LiteAPI request")
}

// logResponse logs the response that completed a call.
func (t *Transport) logResponse(res *attemptResult, requestID string, callCount int64, elapsed time.Duration) {
	logEvent := t.logger.Info().
		Str("direction", "inbound").
		Str("destination", string(t.destination)).
		Str("method", res.method).
		Str("url", res.url).
		Int("status", res.status).
		Dur("elapsed", elapsed).
		Int64("call_count", callCount).
		Str("request_id", requestID)

	if t.logPayloads && len(res.body) > 0 {
		logEvent = t.withPayload(logEvent, res.body)
	}

	logEvent.Msg("LiteAPI response")
}

func (t *Transport) logRetry(method, url, requestID string, attempt int, delay time.Duration, status int, err error) {
	logEvent := t.logger.Warn().
		Str("destination", string(t.destination)).
		Str("method", method).
		Str("url", url).
		Str("request_id", requestID).
		Int("attempt", attempt+1).
		Dur("delay", delay)

	if status > 0 {
		logEvent.Int("status", status)
	}
	if err != nil {
		logEvent.Err(err)
	}

	logEvent.Msg("Retrying LiteAPI request")
}

func (t *Transport) logFailure(method, url, requestID string, callCount int64, elapsed time.Duration, err error) {
	t.logger.Error().
		Err(err).
		Str("destination", string(t.destination)).
		Str("method", method).
		Str("url", url).
		Dur("elapsed", elapsed).
		Int64("call_count", callCount).
		Str("request_id", requestID).
		Msg("LiteAPI request failed")
}

// withPayload attaches a body preview. JSON previews go through the logger's
// sensitive field filter; anything else is masked whole.
func (t *Transport) withPayload(logEvent logger.LogEvent, body []byte) logger.LogEvent {
	preview := t.truncate(body)
	logEvent = logEvent.Int("body_size", len(body))

	var decoded any
	if json.Valid(preview) && json.Unmarshal(preview, &decoded) == nil {
		return logEvent.Interface("body", decoded)
	}
	return logEvent.Str("body", logger.DefaultMaskValue)
}

func (t *Transport) truncate(body []byte) []byte {
	if t.maxPayloadBytes > 0 && len(body) > t.maxPayloadBytes {
		return body[:t.maxPayloadBytes]
	}
	return body
}
