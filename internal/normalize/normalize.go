// Package normalize turns a model's free-text answer into typed dashboard
// records: locate the embedded JSON object, decode it, map the three category
// arrays and collect the grounding citations.
package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	llmclient "boxoffice/internal/llmClient"
	"boxoffice/internal/types"
)

// Policy decides what a located but malformed payload means.
type Policy int

const (
	// PolicyStrict returns the DecodeError to the caller.
	PolicyStrict Policy = iota
	// PolicyLenient logs the DecodeError and yields empty lists, the same
	// outcome as a response without any payload.
	PolicyLenient
)

func (p Policy) String() string {
	if p == PolicyLenient {
		return "lenient"
	}
	return "strict"
}

// ParsePolicy accepts "strict" or "lenient". Empty means strict.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "lenient":
		return PolicyLenient, nil
	}
	return PolicyStrict, fmt.Errorf("normalize: unknown decode policy %q", s)
}

// Result holds the three category lists and the citations of one response.
// Located is false when the text contained no candidate object at all.
type Result struct {
	Running      []types.Movie
	TopIndian    []types.Movie
	TopWorldwide []types.Movie
	Sources      []types.Citation
	Located      bool
}

// Count is the number of records across all categories.
func (r Result) Count() int {
	return len(r.Running) + len(r.TopIndian) + len(r.TopWorldwide)
}

type Normalizer struct {
	mapper Mapper
	policy Policy
	dedupe bool
	log    zerolog.Logger
}

type Option func(*Normalizer)

func WithPolicy(p Policy) Option { return func(n *Normalizer) { n.policy = p } }

// WithDedupe toggles URI de-duplication of citations. On by default.
func WithDedupe(on bool) Option { return func(n *Normalizer) { n.dedupe = on } }

func WithIDGenerator(g IDGenerator) Option {
	return func(n *Normalizer) { n.mapper.NewID = g }
}

func WithLogger(l zerolog.Logger) Option { return func(n *Normalizer) { n.log = l } }

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		mapper: Mapper{NewID: UUIDGenerator},
		policy: PolicyStrict,
		dedupe: true,
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Normalize runs scanner, decoder, mapper and aggregator over one response.
// A response without any object is a success with empty lists. A malformed
// object is a *DecodeError under PolicyStrict.
func (n *Normalizer) Normalize(text string, chunks []llmclient.GroundingChunk) (Result, error) {
	res := Result{Sources: Aggregate(chunks, n.dedupe)}

	p, found, err := locate(text)
	res.Located = found
	if err != nil {
		var de *DecodeError
		if n.policy == PolicyLenient && errors.As(err, &de) {
			n.log.Warn().Err(err).Int("span_bytes", de.SpanLen).Msg("malformed payload treated as empty")
			return emptyLists(res), nil
		}
		return Result{}, err
	}
	if !found {
		n.log.Debug().Int("text_bytes", len(text)).Msg("no payload in response")
		return emptyLists(res), nil
	}

	res.Running = n.mapper.Map(types.CategoryRunning, p[types.CategoryRunning])
	res.TopIndian = n.mapper.Map(types.CategoryTopIndian, p[types.CategoryTopIndian])
	res.TopWorldwide = n.mapper.Map(types.CategoryTopWorldwide, p[types.CategoryTopWorldwide])
	n.log.Debug().
		Int("running", len(res.Running)).
		Int("top_indian", len(res.TopIndian)).
		Int("top_worldwide", len(res.TopWorldwide)).
		Int("sources", len(res.Sources)).
		Msg("payload normalized")
	return res, nil
}

func emptyLists(r Result) Result {
	r.Running = []types.Movie{}
	r.TopIndian = []types.Movie{}
	r.TopWorldwide = []types.Movie{}
	return r
}
