package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testStringer struct{}

func (testStringer) String() string { return "stringer" }

func TestQueryEncode(t *testing.T) {
	limit := 5
	var nilPtr *int

	tests := []struct {
		name     string
		query    Query
		expected string
	}{
		{name: "nil", query: nil, expected: ""},
		{name: "empty", query: Query{}, expected: ""},
		{name: "string", query: Query{"countryCode": "IT"}, expected: "countryCode=IT"},
		{name: "string list", query: Query{"hotelIds": []string{"lp1234", "lp5678"}}, expected: "hotelIds=lp1234%2Clp5678"},
		{name: "int list", query: Query{"ids": []int{1, 2, 3}}, expected: "ids=1%2C2%2C3"},
		{name: "any list", query: Query{"mix": []any{"a", 1, true}}, expected: "mix=a%2C1%2Ctrue"},
		{name: "empty list omitted", query: Query{"hotelIds": []string{}}, expected: ""},
		{name: "nil omitted", query: Query{"cityName": nil, "a": "b"}, expected: "a=b"},
		{name: "nil pointer omitted", query: Query{"limit": nilPtr}, expected: ""},
		{name: "pointer", query: Query{"limit": &limit}, expected: "limit=5"},
		{name: "scalars", query: Query{"b": false, "f": 1.25, "n": int64(7)}, expected: "b=false&f=1.25&n=7"},
		{name: "stringer", query: Query{"s": testStringer{}}, expected: "s=stringer"},
		{name: "duration falls back to stringer", query: Query{"d": time.Second}, expected: "d=1s"},
		{name: "empty string kept", query: Query{"q": ""}, expected: "q="},
		{name: "sorted keys", query: Query{"z": "1", "a": "2", "m": "3"}, expected: "a=2&m=3&z=1"},
		{name: "escaping", query: Query{"textQuery": "New York & Co"}, expected: "textQuery=New+York+%26+Co"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.query.Encode())
		})
	}
}
