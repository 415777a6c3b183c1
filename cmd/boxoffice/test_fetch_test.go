package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/internal/dashboard"
	"boxoffice/internal/gateway/config"
)

func fakeConfig() *config.Config {
	return &config.Config{
		LLM:           config.LLMConfig{Provider: config.ProviderFake, Timeout: 5 * time.Second},
		DecodePolicy:  "strict",
		DedupeSources: true,
		DisplayTZ:     "UTC",
	}
}

func TestRunFetch_Tables(t *testing.T) {
	var out bytes.Buffer
	err := runFetch(context.Background(), fakeConfig(), zerolog.Nop(), &out, fetchOptions{Sources: 1})
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "## Live Theaters (crores)")
	assert.Contains(t, s, "| Kantara Chapter 1 ")
	assert.Contains(t, s, "Avengers: Endgame")
	assert.Contains(t, s, "Sources:\n  - List of highest-gros... <https://en.wikipedia.org/wiki/List_of_highest-grossing_Indian_films>")
	assert.NotContains(t, s, "sacnilk")
}

func TestRunFetch_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runFetch(context.Background(), fakeConfig(), zerolog.Nop(), &out, fetchOptions{JSON: true}))

	var snap map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &snap))
	assert.Len(t, snap["runningMovies"], 2)
	assert.Len(t, snap["sources"], 2)
}

func TestRunFetch_FailureShowsUserMessage(t *testing.T) {
	cfg := fakeConfig()
	cfg.PromptProfile = "/missing/profile.yaml"
	err := runFetch(context.Background(), cfg, zerolog.Nop(), &bytes.Buffer{}, fetchOptions{})
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = runFetch(ctx, fakeConfig(), zerolog.Nop(), &bytes.Buffer{}, fetchOptions{})
	assert.EqualError(t, err, dashboard.UserErrorMessage)
}
