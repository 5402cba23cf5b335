package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/gaborage/go-liteapi/transport"
)

// MockCaller provides a testify-based mock implementation of transport.Caller.
//
// Example usage:
//
//	caller := &mocks.MockCaller{}
//	caller.ExpectGet("data/countries", json.RawMessage(`[]`), nil)
//	raw, err := liteapi.NewStaticData(caller).Countries(ctx)
//	caller.AssertExpectations(t)
type MockCaller struct {
	mock.Mock
}

var _ transport.Caller = (*MockCaller)(nil)

// Get implements transport.Caller
func (m *MockCaller) Get(ctx context.Context, path string, query transport.Query) (json.RawMessage, error) {
	args := m.Called(ctx, path, query)
	return rawMessage(args.Get(0)), args.Error(1)
}

// Post implements transport.Caller
func (m *MockCaller) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	args := m.Called(ctx, path, body)
	return rawMessage(args.Get(0)), args.Error(1)
}

// Put implements transport.Caller
func (m *MockCaller) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	args := m.Called(ctx, path, body)
	return rawMessage(args.Get(0)), args.Error(1)
}

// ExpectGet sets up a GET on path with any context and query.
func (m *MockCaller) ExpectGet(path string, data json.RawMessage, err error) *mock.Call {
	return m.On("Get", mock.Anything, path, mock.Anything).Return(data, err)
}

// ExpectPost sets up a POST on path with any context and body.
func (m *MockCaller) ExpectPost(path string, data json.RawMessage, err error) *mock.Call {
	return m.On("Post", mock.Anything, path, mock.Anything).Return(data, err)
}

// ExpectPut sets up a PUT on path with any context and body.
func (m *MockCaller) ExpectPut(path string, data json.RawMessage, err error) *mock.Call {
	return m.On("Put", mock.Anything, path, mock.Anything).Return(data, err)
}

func rawMessage(v any) json.RawMessage {
	switch data := v.(type) {
	case json.RawMessage:
		return data
	case []byte:
		return data
	case string:
		return json.RawMessage(data)
	default:
		return nil
	}
}
