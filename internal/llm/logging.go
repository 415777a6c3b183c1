package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	llmclient "boxoffice/internal/llmClient"
)

// WithLogging logs request size, latency and errors.
func WithLogging(logger zerolog.Logger) Middleware {
	return func(next llmclient.GroundedClient) llmclient.GroundedClient {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next llmclient.GroundedClient
	log  zerolog.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) GenerateGrounded(ctx context.Context, prompt string) (*llmclient.Response, error) {
	caller := CallerFrom(ctx)
	l.log.Info().Str("client", l.next.Name()).Str("caller", caller).Int("bytes", len(prompt)).Msg("LLM request")
	start := time.Now()
	resp, err := l.next.GenerateGrounded(ctx, prompt)
	if err != nil {
		l.log.Error().Err(err).Str("caller", caller).Dur("elapsed", time.Since(start)).Msg("LLM error")
		return resp, err
	}
	if resp == nil {
		l.log.Warn().Str("caller", caller).Dur("elapsed", time.Since(start)).Msg("LLM empty response")
		return resp, err
	}
	l.log.Info().
		Str("caller", caller).
		Dur("elapsed", time.Since(start)).
		Int("answer_bytes", len(resp.Text)).
		Int("chunks", len(resp.Chunks)).
		Msg("LLM response")
	return resp, err
}
