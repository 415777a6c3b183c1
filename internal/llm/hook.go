package llm

import (
	"context"
	"fmt"
	"io"
	"sync"

	llmclient "boxoffice/internal/llmClient"
)

// PromptHook defines callbacks around LLM requests.
type PromptHook interface {
	Before(ctx context.Context, caller, prompt string)
	After(ctx context.Context, caller string, resp *llmclient.Response, err error)
}

type ctxKeyHook struct{}
type ctxKeyCaller struct{}

// WithCaller attaches a caller name to the context.
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, ctxKeyCaller{}, caller)
}

// WithPromptHook attaches a PromptHook to the context. WithHooks picks it up.
func WithPromptHook(ctx context.Context, hook PromptHook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

// HookFrom returns the hook stored in the context.
func HookFrom(ctx context.Context) PromptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(PromptHook); ok {
			return h
		}
	}
	return nil
}

// CallerFrom returns the caller string stored in the context.
func CallerFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyCaller{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}

// WithHooks calls HookFrom(ctx).Before/After around GenerateGrounded.
// If no hook is present in the context, it is a no-op.
func WithHooks() Middleware {
	return func(next llmclient.GroundedClient) llmclient.GroundedClient {
		return &hooked{next: next}
	}
}

type hooked struct{ next llmclient.GroundedClient }

func (h *hooked) Name() string { return h.next.Name() }
func (h *hooked) Close() error { return h.next.Close() }

func (h *hooked) GenerateGrounded(ctx context.Context, prompt string) (*llmclient.Response, error) {
	hook := HookFrom(ctx)
	if hook != nil {
		hook.Before(ctx, CallerFrom(ctx), prompt)
	}
	resp, err := h.next.GenerateGrounded(ctx, prompt)
	if hook != nil {
		hook.After(ctx, CallerFrom(ctx), resp, err)
	}
	return resp, err
}

// TraceHook dumps prompts and raw answers to w. Used by `fetch --trace`.
type TraceHook struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTraceHook(w io.Writer) *TraceHook { return &TraceHook{w: w} }

func (t *TraceHook) Before(_ context.Context, caller, prompt string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "----- prompt (%s) -----\n%s\n", caller, prompt)
}

func (t *TraceHook) After(_ context.Context, caller string, resp *llmclient.Response, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		fmt.Fprintf(t.w, "----- error (%s) -----\n%v\n", caller, err)
		return
	}
	if resp == nil {
		fmt.Fprintf(t.w, "----- answer (%s) -----\n<empty>\n", caller)
		return
	}
	fmt.Fprintf(t.w, "----- answer (%s, %d grounding chunks) -----\n%s\n", caller, len(resp.Chunks), resp.Text)
}
