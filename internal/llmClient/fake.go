package llmclient

import (
	"context"
	"sync"
	"sync/atomic"
)

// FakeClient returns a canned answer for offline runs and tests.
type FakeClient struct {
	Text   string
	Chunks []GroundingChunk
	Err    error
	// Gate, when non-nil, blocks each call until it is closed or ctx ends.
	Gate chan struct{}

	calls atomic.Int32

	mu         sync.Mutex
	lastPrompt string
}

// NewFakeClient returns a client answering with a small fixed dashboard.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		Text: "Here is the verified data:\n```json\n" + fakeDashboardJSON + "\n```",
		Chunks: []GroundingChunk{
			{Web: &WebSource{Title: "List of highest-grossing Indian films | Wikipedia", URI: "https://en.wikipedia.org/wiki/List_of_highest-grossing_Indian_films"}},
			{Web: &WebSource{Title: "Box Office Collection | Sacnilk", URI: "https://www.sacnilk.com/"}},
			{},
		},
	}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

// Calls reports how many requests reached the client.
func (f *FakeClient) Calls() int { return int(f.calls.Load()) }

func (f *FakeClient) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPrompt
}

func (f *FakeClient) GenerateGrounded(ctx context.Context, prompt string) (*Response, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastPrompt = prompt
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, &CollaboratorError{Provider: "fake", Err: err}
	}
	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return nil, &CollaboratorError{Provider: "fake", Err: ctx.Err()}
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	chunks := append([]GroundingChunk(nil), f.Chunks...)
	return &Response{Text: f.Text, Chunks: chunks}, nil
}

const fakeDashboardJSON = `{
  "running": [
    {"name": "Dhurandhar", "yearOrDate": "2025-12-05", "collectionStr": "₹812 Cr", "collectionNumeric": 812, "budget": "₹225 Cr", "languageOrIndustry": "Hindi"},
    {"name": "Kantara Chapter 1", "yearOrDate": "2025-10-02", "collectionStr": "₹852 Cr", "collectionNumeric": 852, "budget": "₹125 Cr", "languageOrIndustry": "Kannada"}
  ],
  "topIndian": [
    {"name": "Dangal", "yearOrDate": "2016", "collectionStr": "₹2070 Cr", "collectionNumeric": 2070, "budget": "₹70 Cr", "languageOrIndustry": "Hindi"},
    {"name": "Baahubali 2: The Conclusion", "yearOrDate": "2017", "collectionStr": "₹1810 Cr", "collectionNumeric": 1810, "budget": "₹250 Cr", "languageOrIndustry": "Telugu"}
  ],
  "topWorldwide": [
    {"name": "Avatar", "yearOrDate": "2009", "collectionStr": "$2.92B", "collectionNumeric": 2.92, "budget": "$237M", "languageOrIndustry": "Hollywood"},
    {"name": "Avengers: Endgame", "yearOrDate": "2019", "collectionStr": "$2.79B", "collectionNumeric": 2.79, "budget": "$356M", "languageOrIndustry": "Hollywood"}
  ]
}`
