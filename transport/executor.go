package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"go.opentelemetry.io/otel/propagation"

	liteapitrace "github.com/gaborage/go-liteapi/trace"
)

const (
	headerAPIKey      = "X-API-Key"
	headerAccept      = "Accept"
	headerContentType = "Content-Type"
	headerUserAgent   = "User-Agent"
	mimeJSON          = "application/json"
)

var emptyObject = []byte("{}")

// preparedRequest is the attempt-independent part of a call.
type preparedRequest struct {
	method    string
	url       string
	body      []byte
	requestID string
}

// attemptResult is a fully read response.
type attemptResult struct {
	method string
	url    string
	status int
	header http.Header
	body   []byte
}

func (t *Transport) prepareRequest(ctx context.Context, method, path string, query Query, body any) (*preparedRequest, error) {
	prep := &preparedRequest{
		method:    method,
		url:       joinURL(t.baseURL, path),
		requestID: liteapitrace.EnsureRequestID(ctx),
	}

	if method == http.MethodGet {
		if q := query.Encode(); q != "" {
			prep.url += "?" + q
		}
		return prep, nil
	}

	encoded, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("liteapi: encode %s %s body: %w", method, path, err)
	}
	prep.body = encoded
	return prep, nil
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return emptyObject, nil
	case json.RawMessage:
		if len(b) == 0 {
			return emptyObject, nil
		}
		return b, nil
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(encoded, []byte("null")) {
			return emptyObject, nil
		}
		return encoded, nil
	}
}

// execute performs a single HTTP round trip and reads the whole body.
func (t *Transport) execute(ctx context.Context, prep *preparedRequest, attempt int) (*attemptResult, *NetworkError) {
	httpReq, err := t.buildRequest(ctx, prep)
	if err != nil {
		return nil, newConnectionError(err)
	}

	t.logRequest(httpReq, prep.body, prep.requestID, attempt)

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, t.classify(ctx, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if cerr := t.classify(ctx, err); cerr.Reason != ReasonConnectionFailed {
			return nil, cerr
		}
		return nil, newReadError(err)
	}

	return &attemptResult{
		method: prep.method,
		url:    prep.url,
		status: httpResp.StatusCode,
		header: httpResp.Header,
		body:   respBody,
	}, nil
}

func (t *Transport) buildRequest(ctx context.Context, prep *preparedRequest) (*http.Request, error) {
	var body io.Reader
	if prep.body != nil {
		body = bytes.NewReader(prep.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, prep.method, prep.url, body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set(headerAPIKey, t.apiKey)
	httpReq.Header.Set(headerAccept, mimeJSON)
	httpReq.Header.Set(headerUserAgent, t.userAgent)
	httpReq.Header.Set(liteapitrace.HeaderXRequestID, prep.requestID)
	if prep.body != nil {
		httpReq.Header.Set(headerContentType, mimeJSON)
	}
	t.propagator.Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	return httpReq, nil
}

// classify maps a transport failure to a NetworkError.
func (t *Transport) classify(ctx context.Context, err error) *NetworkError {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return t.contextError(ctxErr)
	}
	if isTimeout(err) {
		return newTimeoutError(t.timeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return newCanceledError(err)
	}
	return newConnectionError(err)
}

func (t *Transport) contextError(err error) *NetworkError {
	if errors.Is(err, context.DeadlineExceeded) {
		return newTimeoutError(t.timeout, err)
	}
	return newCanceledError(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
