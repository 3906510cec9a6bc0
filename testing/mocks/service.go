package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gaborage/netbricks/interceptor"
	"github.com/gaborage/netbricks/network"
)

// MockService provides a testify-based mock implementation of network.Service.
//
// Example usage:
//
//	svc := &mocks.MockService{}
//	svc.On("Execute", mock.Anything, mock.MatchedBy(func(req network.Request) bool {
//		return req.Path() == "/users/1"
//	})).Return(network.NewResponse(200, body, nil, nil), nil)
type MockService struct {
	mock.Mock
}

var _ network.Service = (*MockService)(nil)

// Execute implements network.Service
func (m *MockService) Execute(ctx context.Context, req network.Request) (network.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(network.Response)
	return resp, args.Error(1)
}

// MockTokenProvider provides a testify-based mock implementation of
// interceptor.TokenProvider.
type MockTokenProvider struct {
	mock.Mock
}

var _ interceptor.TokenProvider = (*MockTokenProvider)(nil)

// Token implements interceptor.TokenProvider
func (m *MockTokenProvider) Token(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
