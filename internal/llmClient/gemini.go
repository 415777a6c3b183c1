package llmclient

import (
	"context"
	"errors"
	"strings"

	genai "google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient is a thin wrapper around the official genai client.
// It only focuses on the API call itself. Cross-cutting concerns
// (logging, hooks, timeouts) are applied via Middleware.
type GeminiClient struct {
	models generator
	model  string
}

// generator is the subset of *genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiClient builds a client for the Gemini API backend. An empty apiKey
// lets genai read GOOGLE_API_KEY or GEMINI_API_KEY from the environment.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &CollaboratorError{Provider: "gemini", Err: err}
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{models: cli.Models, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateGrounded runs the prompt with the Google Search tool enabled.
func (g *GeminiClient) GenerateGrounded(ctx context.Context, prompt string) (*Response, error) {
	resp, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		},
	)
	if err != nil {
		return nil, wrapGeminiError(err)
	}
	return fromGenAI(resp)
}

func wrapGeminiError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &CollaboratorError{Provider: "gemini", Err: err}
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &CollaboratorError{Provider: "gemini", Code: apiErr.Code, Status: apiErr.Status, Err: err}
	}
	return &CollaboratorError{Provider: "gemini", Err: err}
}

// fromGenAI flattens the first candidate. Grounding chunks other than web
// ones are kept as empty entries so callers see the original order.
func fromGenAI(resp *genai.GenerateContentResponse) (*Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, &CollaboratorError{Provider: "gemini", Err: ErrEmptyResponse}
	}
	cand := resp.Candidates[0]
	var text strings.Builder
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p == nil || p.Thought {
				continue
			}
			text.WriteString(p.Text)
		}
	}
	out := &Response{Text: text.String()}
	if md := cand.GroundingMetadata; md != nil {
		out.Chunks = make([]GroundingChunk, 0, len(md.GroundingChunks))
		for _, ch := range md.GroundingChunks {
			if ch == nil {
				continue
			}
			var gc GroundingChunk
			if ch.Web != nil {
				gc.Web = &WebSource{Title: ch.Web.Title, URI: ch.Web.URI}
			}
			out.Chunks = append(out.Chunks, gc)
		}
	}
	return out, nil
}
