package llm

import (
	"context"
	"time"

	llmclient "boxoffice/internal/llmClient"
)

// Middleware decorates a GroundedClient to inject cross-cutting concerns
// (logging, hooks, timeouts).
type Middleware func(llmclient.GroundedClient) llmclient.GroundedClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner llmclient.GroundedClient, mws ...Middleware) llmclient.GroundedClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// WithTimeout bounds every call. d <= 0 leaves calls unbounded.
func WithTimeout(d time.Duration) Middleware {
	return func(next llmclient.GroundedClient) llmclient.GroundedClient {
		if d <= 0 {
			return next
		}
		return &timed{next: next, d: d}
	}
}

type timed struct {
	next llmclient.GroundedClient
	d    time.Duration
}

func (t *timed) Name() string { return t.next.Name() }
func (t *timed) Close() error { return t.next.Close() }

func (t *timed) GenerateGrounded(ctx context.Context, prompt string) (*llmclient.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.GenerateGrounded(ctx, prompt)
}
