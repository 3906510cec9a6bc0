package mocks

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"sync"
	"time"

	"github.com/gaborage/netbricks/network"
)

type cannedResponse struct {
	status  int
	body    []byte
	headers nethttp.Header
}

// NetworkService is a deterministic network.Service for tests. Responses are
// registered per request path; unregistered paths answer an empty 200.
// Non-2xx registrations fail exactly like network.Client would.
//
// All methods are guarded by a mutex, but a single instance is meant to be
// owned by one test: concurrent tests sharing an instance will observe each
// other's registrations and recorded requests.
type NetworkService struct {
	mu        sync.Mutex
	responses map[string]cannedResponse
	requests  []network.Request
	delay     time.Duration
	err       error
}

var _ network.Service = (*NetworkService)(nil)

// NewNetworkService creates an empty NetworkService.
func NewNetworkService() *NetworkService {
	return &NetworkService{responses: make(map[string]cannedResponse)}
}

// Register answers requests for path with status, body and headers.
func (m *NetworkService) Register(path string, status int, body []byte, headers nethttp.Header) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[path] = cannedResponse{
		status:  status,
		body:    append([]byte(nil), body...),
		headers: headers.Clone(),
	}
}

// RegisterJSON registers v encoded as JSON with a JSON content type.
func (m *NetworkService) RegisterJSON(path string, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return network.NewEncodingError(err)
	}
	m.Register(path, status, body, nethttp.Header{"Content-Type": {"application/json"}})
	return nil
}

// SetDelay makes every call wait d before answering. The wait honours
// cancellation of the call's context.
func (m *NetworkService) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// SetError makes every call fail with err after the delay. Errors outside
// the network taxonomy are classified like transport failures. nil clears it.
func (m *NetworkService) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns the requests received so far, oldest first.
func (m *NetworkService) Requests() []network.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]network.Request(nil), m.requests...)
}

// LastRequest returns the most recent request.
func (m *NetworkService) LastRequest() (network.Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return network.Request{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// ClearRequests forgets recorded requests.
func (m *NetworkService) ClearRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

// ClearResponses forgets registered responses.
func (m *NetworkService) ClearResponses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = make(map[string]cannedResponse)
}

// Execute implements network.Service.
func (m *NetworkService) Execute(ctx context.Context, req network.Request) (network.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	delay, forced := m.delay, m.err
	canned, found := m.responses[req.Path()]
	m.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return network.Response{}, network.FromTransportError(ctx.Err())
		case <-timer.C:
		}
	}

	if forced != nil {
		return network.Response{}, network.FromTransportError(forced)
	}
	if !found {
		return network.NewResponse(nethttp.StatusOK, nil, nil, &req), nil
	}

	resp := network.NewResponse(canned.status, canned.body, canned.headers, &req)
	if netErr := network.FromStatusCode(resp.StatusCode(), resp.Body()); netErr != nil {
		netErr.Header = resp.Headers()
		return resp, netErr
	}
	return resp, nil
}
