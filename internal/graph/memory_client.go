package graph

import (
	"context"
	"maps"
	"sync"
)

// Mode distinguishes read and write statements.
type Mode string

const (
	ModeRead  Mode = "read"
	ModeWrite Mode = "write"
)

// ExecutedQuery captures a cypher statement and parameters executed against the graph.
type ExecutedQuery struct {
	Mode   Mode
	Query  string
	Params map[string]any
}

// MemoryClient is a scripted Client for unit tests. Results are registered
// per statement text and every call is recorded.
type MemoryClient struct {
	mu           sync.Mutex
	calls        []ExecutedQuery
	results      map[string][]Result
	err          error
	connectivity error
}

// NewMemoryClient returns an empty MemoryClient. Unscripted statements
// return an empty Result.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{results: make(map[string][]Result)}
}

// On queues res as the next response to query. Several results for the same
// query are returned in order; the last one is repeated once the queue drains.
func (m *MemoryClient) On(query string, res Result) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[query] = append(m.results[query], res)
	return m
}

// WithError makes every subsequent statement fail with err.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return the supplied error.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	return m.execute(ModeWrite, cypher, params)
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	return m.execute(ModeRead, cypher, params)
}

func (m *MemoryClient) execute(mode Mode, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}
	m.calls = append(m.calls, ExecutedQuery{Mode: mode, Query: cypher, Params: maps.Clone(params)})

	queue := m.results[cypher]
	switch len(queue) {
	case 0:
		return Result{}, nil
	case 1:
		return queue[0], nil
	}
	m.results[cypher] = queue[1:]
	return queue[0], nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	return nil
}

// Calls returns a snapshot of every executed statement.
func (m *MemoryClient) Calls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.calls...)
}

// WriteCalls returns a snapshot of executed write statements.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	return m.callsByMode(ModeWrite)
}

// ReadCalls returns a snapshot of executed read statements.
func (m *MemoryClient) ReadCalls() []ExecutedQuery {
	return m.callsByMode(ModeRead)
}

func (m *MemoryClient) callsByMode(mode Mode) []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ExecutedQuery
	for _, c := range m.calls {
		if c.Mode == mode {
			out = append(out, c)
		}
	}
	return out
}
