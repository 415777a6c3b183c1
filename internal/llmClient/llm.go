package llmclient

import (
	"context"
	"errors"
	"fmt"
)

// GroundedClient sends one prompt to a generative model with web-search
// grounding enabled and returns the answer text plus the sources it cited.
type GroundedClient interface {
	Name() string
	Close() error
	GenerateGrounded(ctx context.Context, prompt string) (*Response, error)
}

// Response is the model's free-text answer. Text may wrap the requested JSON
// in prose or markdown fences.
type Response struct {
	Text   string
	Chunks []GroundingChunk
}

// GroundingChunk is one grounding entry. Only web entries carry a citation.
type GroundingChunk struct {
	Web *WebSource
}

type WebSource struct {
	Title string
	URI   string
}

var ErrEmptyResponse = errors.New("llm: empty response from model")

// CollaboratorError is any failure on the model side of the call: transport,
// auth, quota or a server fault. Callers are not expected to tell them apart.
type CollaboratorError struct {
	Provider string
	Code     int
	Status   string
	Err      error
}

func (e *CollaboratorError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: upstream %d %s: %v", e.Provider, e.Code, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
