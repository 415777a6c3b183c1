package llmtool

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStructuredPrompt_RendersSections(t *testing.T) {
	spec := StructuredPromptSpec{
		Purpose:      "Collect figures.",
		Background:   "Search first.",
		Tasks:        []string{"first\n  detail", "", "second"},
		OutputFormat: "JSON only.",
		OutputFields: []PromptField{
			{Name: "name", Type: "string", Required: true, Description: "Title."},
			{Name: "budget", Type: "string"},
		},
		Constraints: []string{"No markdown."},
		Rules:       []string{"Be exact."},
	}

	out, err := RenderStructuredPrompt(spec)
	require.NoError(t, err)

	for _, s := range []string{"[PURPOSE]", "[BACKGROUND]", "[TASKS]", "[OUTPUT]", "[CONSTRAINTS]", "[RULES]", "[OUTPUT_FORMAT]"} {
		assert.Contains(t, out, s)
	}
	assert.Contains(t, out, "1. first\n   detail\n2. second")
	assert.Contains(t, out, "- name (string, required): Title.")
	assert.Contains(t, out, "- budget (string, optional)")
	assert.True(t, strings.HasSuffix(out, "JSON only.\n"))
}

func TestRenderStructuredPrompt_SkipsEmptySections(t *testing.T) {
	out, err := RenderStructuredPrompt(StructuredPromptSpec{
		Purpose:      "p",
		OutputFields: []PromptField{{Name: "x", Type: "string"}},
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "[RULES]")
	assert.NotContains(t, out, "[BACKGROUND]")
}

func TestRenderStructuredPrompt_RequiresPurposeAndFields(t *testing.T) {
	_, err := RenderStructuredPrompt(StructuredPromptSpec{OutputFields: []PromptField{{Name: "x"}}})
	assert.Error(t, err)
	_, err = RenderStructuredPrompt(StructuredPromptSpec{Purpose: "p"})
	assert.Error(t, err)
}

func TestApplyPresets_PrependsInOrder(t *testing.T) {
	spec := ApplyPresets(StructuredPromptSpec{Rules: []string{"own"}},
		PromptPreset{Rules: []string{"a"}}, PromptPreset{Rules: []string{"b"}})
	assert.Equal(t, []string{"a", "b", "own"}, spec.Rules)
}
