// Package fetch builds one dashboard snapshot: prompt, one grounded model call,
// normalization, freshness stamp. Any failure fails the whole fetch.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"boxoffice/internal/llm"
	llmclient "boxoffice/internal/llmClient"
	"boxoffice/internal/llmtool"
	"boxoffice/internal/normalize"
	"boxoffice/internal/types"
)

// ErrFetchFailed matches every failure returned by Fetcher.Fetch.
var ErrFetchFailed = errors.New("fetch failed")

type Kind string

const (
	KindCollaborator Kind = "collaborator"
	KindDecode       Kind = "decode"
	KindPrompt       Kind = "prompt"
)

// FetchError carries the failure kind. Callers showing errors to users are
// expected to collapse all kinds into one message.
type FetchError struct {
	Kind Kind
	Err  error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch: %s: %v", e.Kind, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

// Fetcher composes the request and normalizes the answer.
type Fetcher struct {
	Client     llmclient.GroundedClient
	Normalizer *normalize.Normalizer
	Profile    llmtool.Profile
	// Now and Location stamp the snapshot; defaults are time.Now and IST.
	Now      func() time.Time
	Location *time.Location
}

func New(client llmclient.GroundedClient, n *normalize.Normalizer, p llmtool.Profile) *Fetcher {
	return &Fetcher{Client: client, Normalizer: n, Profile: p, Now: time.Now, Location: types.IST}
}

// Fetch returns a complete snapshot or an error, never both.
func (f *Fetcher) Fetch(ctx context.Context) (*types.Snapshot, error) {
	prompt, err := llmtool.BuildPrompt(f.Profile)
	if err != nil {
		return nil, &FetchError{Kind: KindPrompt, Err: err}
	}

	ctx = llm.WithCaller(ctx, "dashboard.fetch")
	resp, err := f.Client.GenerateGrounded(ctx, prompt)
	if err != nil {
		return nil, &FetchError{Kind: KindCollaborator, Err: err}
	}
	if resp == nil {
		return nil, &FetchError{Kind: KindCollaborator, Err: llmclient.ErrEmptyResponse}
	}

	n := f.Normalizer
	if n == nil {
		n = normalize.New()
	}
	res, err := n.Normalize(resp.Text, resp.Chunks)
	if err != nil {
		return nil, &FetchError{Kind: KindDecode, Err: err}
	}

	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	at := now()
	snap := &types.Snapshot{
		Running:      res.Running,
		TopIndian:    res.TopIndian,
		TopWorldwide: res.TopWorldwide,
		Sources:      res.Sources,
		FetchedAt:    at,
		LastUpdated:  types.FormatFreshness(at, f.Location),
	}
	zerolog.Ctx(ctx).Debug().
		Bool("located", res.Located).
		Int("records", snap.Len()).
		Int("sources", len(snap.Sources)).
		Msg("snapshot built")
	return snap, nil
}
