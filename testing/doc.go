// Package testing provides test helpers for code built on the LiteAPI client.
//
// # Mocks
//
// The mocks subpackage provides a testify-based transport.Caller so endpoint
// services and application code can be tested without HTTP.
//
// # Fixtures
//
// The fixtures subpackage builds LiteAPI response envelopes and serves them from
// an http.Handler that records every request it receives.
//
//	import (
//		"github.com/gaborage/go-liteapi/testing/fixtures"
//		"github.com/gaborage/go-liteapi/testing/mocks"
//	)
package testing
