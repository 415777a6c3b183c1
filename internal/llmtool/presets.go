package llmtool

// PromptPreset holds reusable constraints and rules for structured prompts.
type PromptPreset struct {
	Constraints []string
	Rules       []string
}

// ApplyPresets prepends preset constraints/rules to a structured prompt spec.
func ApplyPresets(spec StructuredPromptSpec, presets ...PromptPreset) StructuredPromptSpec {
	if len(presets) == 0 {
		return spec
	}
	var merged PromptPreset
	for _, p := range presets {
		merged.Constraints = append(merged.Constraints, p.Constraints...)
		merged.Rules = append(merged.Rules, p.Rules...)
	}
	spec.Constraints = append(merged.Constraints, spec.Constraints...)
	spec.Rules = append(merged.Rules, spec.Rules...)
	return spec
}

// PresetSingleObject asks for exactly one JSON object in the answer.
func PresetSingleObject() PromptPreset {
	return PromptPreset{
		Constraints: []string{
			"Return exactly one JSON object; prose before or after it is ignored.",
			"Use exactly the listed keys; no extra fields.",
			"No comments or trailing commas inside the JSON.",
		},
	}
}

// PresetGrounded ties figures to what search results actually show.
func PresetGrounded() PromptPreset {
	return PromptPreset{
		Rules: []string{
			"Use Google Search for every figure; do not rely on memory alone.",
			"If a figure cannot be verified, keep the title and leave collectionStr empty rather than guessing.",
		},
	}
}
