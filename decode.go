package liteapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
)

// Decode unmarshals a data payload into T. A nil or null payload yields the
// zero value.
func Decode[T any](raw json.RawMessage) (T, error) {
	var out T
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode liteapi payload: %w", err)
	}
	return out, nil
}

// DecodeResult is Decode for a call's (payload, error) pair.
func DecodeResult[T any](raw json.RawMessage, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](raw)
}

func pathID(prefix, id string, suffix ...string) string {
	p := prefix + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
