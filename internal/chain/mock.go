package chain

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// MockInvoker records invocations and returns canned results. Used in tests
// and when the service runs without a chain node.
type MockInvoker struct {
	mu    sync.Mutex
	calls []MockCall
	seq   atomic.Int64

	// Err, when set, fails every invocation.
	Err error
}

// MockCall is one recorded invocation.
type MockCall struct {
	Method string
	Args   []any
}

var _ Invoker = (*MockInvoker)(nil)

// NewMockInvoker creates a mock that succeeds with synthetic tx hashes.
func NewMockInvoker() *MockInvoker {
	return &MockInvoker{}
}

func (m *MockInvoker) Invoke(_ context.Context, method string, args ...any) (Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Method: method, Args: args})
	m.mu.Unlock()

	if m.Err != nil {
		return Result{}, m.Err
	}
	return Result{
		TxHash: fmt.Sprintf("0xmock%08d", m.seq.Add(1)),
		State:  "HALT",
	}, nil
}

// Calls returns a copy of the recorded invocations.
func (m *MockInvoker) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}
