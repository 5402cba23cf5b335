package fixtures

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Response is a canned reply served by Router.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Success wraps data in a success envelope: {"status":"success","data":...}.
func Success(data any) Response {
	return Response{Status: http.StatusOK, Body: mustJSON(map[string]any{"status": "success", "data": data})}
}

// Failure builds a failed envelope with error.code and error.message. A nil
// code is omitted.
func Failure(status int, code any, message string) Response {
	errBody := map[string]any{"message": message}
	if code != nil {
		errBody["code"] = code
	}
	return Response{Status: status, Body: mustJSON(map[string]any{"status": "failed", "error": errBody})}
}

// Raw serves body verbatim with the given status.
func Raw(status int, body string) Response {
	return Response{Status: status, Body: []byte(body)}
}

// RateLimited is a 429 failure carrying a Retry-After header in seconds.
func RateLimited(retryAfterSeconds int) Response {
	r := Failure(http.StatusTooManyRequests, http.StatusTooManyRequests, "Rate limit exceeded")
	r.Header = http.Header{"Retry-After": []string{strconv.Itoa(retryAfterSeconds)}}
	return r
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
