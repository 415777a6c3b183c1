package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"boxoffice/internal/fetch"
	"boxoffice/internal/gateway/config"
	"boxoffice/internal/llm"
	llmclient "boxoffice/internal/llmClient"
	"boxoffice/internal/llmtool"
	"boxoffice/internal/normalize"
	"boxoffice/internal/types"
)

func newClient(ctx context.Context, cfg *config.Config) (llmclient.GroundedClient, error) {
	switch cfg.LLM.Provider {
	case config.ProviderFake:
		return llmclient.NewFakeClient(), nil
	case config.ProviderGemini:
		return llmclient.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
}

// NewFetcher wires the collaborator client, prompt profile and normalizer.
// The caller closes the client held by the returned fetcher.
func NewFetcher(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*fetch.Fetcher, error) {
	inner, err := newClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}
	client := llm.Wrap(inner,
		llm.WithLogging(logger),
		llm.WithHooks(),
		llm.WithTimeout(cfg.LLM.Timeout),
	)

	profile, err := llmtool.LoadProfile(cfg.PromptProfile)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to load prompt profile: %w", err)
	}
	policy, err := normalize.ParsePolicy(cfg.DecodePolicy)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	n := normalize.New(
		normalize.WithPolicy(policy),
		normalize.WithDedupe(cfg.DedupeSources),
		normalize.WithLogger(logger),
	)

	f := fetch.New(client, n, profile)
	f.Location = types.LoadLocation(cfg.DisplayTZ)
	logger.Debug().
		Str("client", client.Name()).
		Str("policy", policy.String()).
		Str("market", profile.Market).
		Dur("timeout", cfg.LLM.Timeout).
		Msg("fetcher ready")
	return f, nil
}
