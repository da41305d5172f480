package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/wire"
)

type handler func(req client.Request) (*client.Response, error)

// fakeAPI answers requests by path and records every call.
type fakeAPI struct {
	mu       sync.Mutex
	handlers map[string]handler
	calls    []client.Request

	refreshFn    func(ctx context.Context) (string, error)
	refreshCalls int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{handlers: map[string]handler{}}
}

func (f *fakeAPI) on(path string, h handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = h
}

func (f *fakeAPI) Do(_ context.Context, req client.Request) (*client.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	h, ok := f.handlers[req.Path]
	f.mu.Unlock()

	if !ok {
		return nil, &client.APIError{StatusCode: 404, Message: "Not Found"}
	}
	return h(req)
}

func (f *fakeAPI) Refresh(ctx context.Context) (string, error) {
	f.mu.Lock()
	f.refreshCalls++
	fn := f.refreshFn
	f.mu.Unlock()

	if fn == nil {
		return "", client.ErrRefreshFailed
	}
	return fn(ctx)
}

func (f *fakeAPI) callsTo(path string) []client.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []client.Request
	for _, c := range f.calls {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func ok(body string) handler {
	return func(client.Request) (*client.Response, error) {
		env, err := wire.Decode([]byte(body))
		if err != nil {
			return nil, err
		}
		return &client.Response{StatusCode: 200, Body: []byte(body), Envelope: env}, nil
	}
}

func fail(err error) handler {
	return func(client.Request) (*client.Response, error) {
		return nil, err
	}
}
