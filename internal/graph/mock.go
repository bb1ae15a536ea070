package graph

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/zero-day-ai/toolgraph/internal/types"
)

// MockCall represents a recorded method call on the mock graph client.
type MockCall struct {
	Method    string
	Cypher    string
	Params    map[string]any
	Timestamp time.Time
}

// Responder computes the result of a Query or Write call. method is "Query" or "Write".
type Responder func(method, cypher string, params map[string]any) (QueryResult, error)

type mockResponse struct {
	result QueryResult
	err    error
}

// MockGraphClient is a GraphClient for unit tests. It records every call and
// answers Query/Write from, in order of precedence: a sticky error set with
// SetQueryError, a Responder, a FIFO of scripted responses, or an empty result.
type MockGraphClient struct {
	mu sync.RWMutex

	connected    bool
	healthStatus types.HealthStatus
	calls        []MockCall

	responses    []mockResponse
	responder    Responder
	queryError   error
	connectError error
	closeError   error
}

// NewMockGraphClient creates a new mock graph client for testing.
func NewMockGraphClient() *MockGraphClient {
	return &MockGraphClient{
		healthStatus: types.Healthy("mock graph client"),
		calls:        make([]MockCall, 0),
		responses:    make([]mockResponse, 0),
	}
}

func (m *MockGraphClient) record(method, cypher string, params map[string]any) {
	m.calls = append(m.calls, MockCall{
		Method:    method,
		Cypher:    cypher,
		Params:    params,
		Timestamp: time.Now(),
	})
}

// Connect records the call and simulates connection.
func (m *MockGraphClient) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Connect", "", nil)

	if m.connectError != nil {
		return m.connectError
	}

	m.connected = true
	return nil
}

// Close records the call and simulates disconnection.
func (m *MockGraphClient) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Close", "", nil)

	if m.closeError != nil {
		return m.closeError
	}

	m.connected = false
	return nil
}

// Health records the call and returns the configured health status.
func (m *MockGraphClient) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Health", "", nil)

	if !m.connected {
		return types.Unhealthy("not connected")
	}
	return m.healthStatus
}

// Query records the call and returns the next configured response.
func (m *MockGraphClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return m.respond("Query", cypher, params)
}

// Write records the call and returns the next configured response.
func (m *MockGraphClient) Write(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return m.respond("Write", cypher, params)
}

func (m *MockGraphClient) respond(method, cypher string, params map[string]any) (QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(method, cypher, params)

	if !m.connected {
		return QueryResult{}, types.NewError(ErrCodeGraphConnectionClosed, "not connected")
	}

	if m.queryError != nil {
		return QueryResult{}, m.queryError
	}

	if m.responder != nil {
		return m.responder(method, cypher, params)
	}

	if len(m.responses) > 0 {
		next := m.responses[0]
		m.responses = m.responses[1:]
		return next.result, next.err
	}

	return QueryResult{
		Records: []map[string]any{},
		Columns: []string{},
	}, nil
}

// AddQueryResult queues a result for the next Query or Write call.
func (m *MockGraphClient) AddQueryResult(result QueryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{result: result})
}

// AddQueryError queues an error for the next Query or Write call.
func (m *MockGraphClient) AddQueryError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{err: err})
}

// SetResponder installs a function that answers every Query and Write call.
func (m *MockGraphClient) SetResponder(r Responder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responder = r
}

// SetHealthStatus configures what Health() should return.
func (m *MockGraphClient) SetHealthStatus(status types.HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthStatus = status
}

// SetConnectError configures Connect() to return an error.
func (m *MockGraphClient) SetConnectError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectError = err
}

// SetCloseError configures Close() to return an error.
func (m *MockGraphClient) SetCloseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeError = err
}

// SetQueryError configures every Query and Write call to return err.
func (m *MockGraphClient) SetQueryError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryError = err
}

// GetCalls returns a copy of all recorded method calls.
func (m *MockGraphClient) GetCalls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// GetCallsByMethod returns all calls to a specific method.
func (m *MockGraphClient) GetCallsByMethod(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]MockCall, 0)
	for _, call := range m.calls {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// GetCallsContaining returns Query/Write calls whose Cypher contains fragment.
func (m *MockGraphClient) GetCallsContaining(fragment string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]MockCall, 0)
	for _, call := range m.calls {
		if call.Cypher != "" && strings.Contains(call.Cypher, fragment) {
			calls = append(calls, call)
		}
	}
	return calls
}

// CallCount returns the total number of method calls.
func (m *MockGraphClient) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}

// IsConnected returns whether the mock is in connected state.
func (m *MockGraphClient) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Reset clears all recorded calls and resets the mock to its initial state.
func (m *MockGraphClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = false
	m.healthStatus = types.Healthy("mock graph client")
	m.calls = make([]MockCall, 0)
	m.responses = make([]mockResponse, 0)
	m.responder = nil
	m.queryError = nil
	m.connectError = nil
	m.closeError = nil
}
