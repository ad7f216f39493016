package llm

import (
	"context"
	"sync"
)

// FakeClient is a scriptable Client used by tests and local development.
// It is safe for concurrent use.
type FakeClient struct {
	// CompleteFn, when set, handles every call.
	CompleteFn func(ctx context.Context, req Request) (Response, error)
	// Responses are returned in order when CompleteFn is nil; the last entry
	// repeats once exhausted.
	Responses []Response
	// Err, when set and CompleteFn is nil, is returned on every call.
	Err error

	mu    sync.Mutex
	Calls []Request
}

func (f *FakeClient) Complete(ctx context.Context, req Request) (Response, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, req)
	idx := len(f.Calls) - 1
	f.mu.Unlock()

	if f.CompleteFn != nil {
		return f.CompleteFn(ctx, req)
	}
	if f.Err != nil {
		return Response{}, f.Err
	}
	if len(f.Responses) == 0 {
		return Response{}, nil
	}
	if idx >= len(f.Responses) {
		idx = len(f.Responses) - 1
	}
	return f.Responses[idx], nil
}

// CallCount returns how many completions have been requested.
func (f *FakeClient) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
