// Package mock provides a scriptable in-memory wallet provider for tests.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/definix-labs/definix/internal/provider"
)

// Handler answers one provider method. The returned value is round-tripped
// through JSON into the caller's result, as it would be on the wire.
type Handler func(ctx context.Context, params []interface{}) (interface{}, error)

// Call records one request.
type Call struct {
	Method string
	Params []interface{}
}

// Provider implements provider.Provider. Methods without a handler fail with
// CodeUnsupportedMethod.
type Provider struct {
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Call
}

var _ provider.Provider = (*Provider)(nil)

// New creates an empty mock provider.
func New() *Provider {
	return &Provider{handlers: make(map[string]Handler)}
}

// On installs a handler for method.
func (p *Provider) On(method string, h Handler) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[method] = h
	return p
}

// OnResult makes method always succeed with v.
func (p *Provider) OnResult(method string, v interface{}) *Provider {
	return p.On(method, func(context.Context, []interface{}) (interface{}, error) {
		return v, nil
	})
}

// OnError makes method always fail with a provider error.
func (p *Provider) OnError(method string, code int, message string) *Provider {
	return p.On(method, func(context.Context, []interface{}) (interface{}, error) {
		return nil, &provider.Error{Code: code, Message: message}
	})
}

// Request implements provider.Provider.
func (p *Provider) Request(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	p.mu.Lock()
	p.calls = append(p.calls, Call{Method: method, Params: params})
	h, ok := p.handlers[method]
	p.mu.Unlock()

	if !ok {
		return &provider.Error{Code: provider.CodeUnsupportedMethod, Message: "unsupported method " + method}
	}

	v, err := h(ctx, params)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("mock: marshal %s result: %w", method, err)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("mock: unmarshal %s result: %w", method, err)
	}
	return nil
}

// Calls returns the recorded requests for method, or all requests when method is "".
func (p *Provider) Calls(method string) []Call {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []Call
	for _, c := range p.calls {
		if method == "" || c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// CallCount returns how many times method was requested.
func (p *Provider) CallCount(method string) int {
	return len(p.Calls(method))
}

// Reset forgets recorded calls but keeps handlers.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = nil
}
