package transport

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/tidwall/gjson"
)

const (
	unknownErrorMessage     = "Unknown error"
	unexpectedStatusMessage = "unexpected response status"
	malformedBodyMessage    = "malformed response body"
)

// Interpret converts a status code and raw body into the envelope's data
// payload or a typed *APIError.
//
// A 2xx body of the form {"data": ...} yields data verbatim; a missing or null
// data field (or an empty body) yields nil. A 2xx body that is not JSON yields
// an api error. Any other status yields an error whose kind follows the status.
func Interpret(status int, body []byte) (json.RawMessage, error) {
	if IsSuccessStatus(status) {
		return successData(status, body)
	}
	return nil, newAPIError(status, body)
}

func successData(status int, body []byte) (json.RawMessage, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, &APIError{
			kind:    KindAPI,
			Status:  status,
			Message: malformedBodyMessage,
			RawBody: body,
		}
	}

	data := gjson.GetBytes(body, "data")
	if !data.Exists() || data.Type == gjson.Null {
		return nil, nil
	}
	return json.RawMessage(data.Raw), nil
}

func newAPIError(status int, body []byte) *APIError {
	kind := kindForStatus(status)
	apiErr := &APIError{
		kind:    kind,
		Status:  status,
		RawBody: body,
		Body:    parseObject(body),
		Code:    errorCode(body),
	}
	if kind == KindAPI {
		apiErr.Message = unexpectedStatusMessage
	} else {
		apiErr.Message = errorMessage(body)
	}
	return apiErr
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == 401:
		return KindAuthentication
	case status == 404:
		return KindNotFound
	case status == 422:
		return KindValidation
	case status == 429:
		return KindRateLimit
	case status >= 400 && status < 500:
		return KindClient
	case status >= 500 && status < 600:
		return KindServer
	default:
		return KindAPI
	}
}

// errorMessage picks error.message, then message, then a fixed fallback.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return unknownErrorMessage
	}
	for _, path := range []string{"error.message", "message"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.Type != gjson.Null {
			return v.String()
		}
	}
	return unknownErrorMessage
}

func errorCode(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	v := gjson.GetBytes(body, "error.code")
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		if v.Num == float64(int64(v.Num)) {
			return strconv.FormatInt(int64(v.Num), 10)
		}
		return v.Raw
	default:
		return ""
	}
}

func parseObject(body []byte) map[string]any {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil
	}
	return m
}
