package llmtool

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the dashboard request for one profile.
func BuildPrompt(p Profile) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	analysts := strings.Join(p.TradeAnalysts, ", ")
	if analysts == "" {
		analysts = "official box office trackers"
	}

	spec := StructuredPromptSpec{
		Purpose: fmt.Sprintf("Perform a high-precision %s and global cinema box office analysis.", p.Market),
		Background: fmt.Sprintf(
			"Use Google Search to verify real-time data from %s (priority for total gross), %s (priority for theatrical status) and trade analysts (%s).",
			p.ReferenceSource, p.StatusSource, analysts),
		Tasks: []string{
			fmt.Sprintf("CURRENTLY RUNNING MOVIES: only films actively screened in theaters today according to %s.\n"+
				"Cross-reference collection figures with %s and %s.\n"+
				"%s"+
				"Collections and budgets in %s.",
				p.StatusSource, p.ReferenceSource, analysts, regionalLine(p.RegionalFocus), p.DomesticUnit),
			fmt.Sprintf("TOP %d HIGHEST GROSSING %s MOVIES (ALL-TIME): worldwide gross records from %s's '%s'.\n"+
				"Collections and budgets in %s.",
				p.TopDomestic, strings.ToUpper(p.Market), p.ReferenceSource, p.DomesticList, p.DomesticUnit),
			fmt.Sprintf("TOP %d HIGHEST GROSSING WORLDWIDE MOVIES (ALL-TIME): global box office records from %s's '%s'.\n"+
				"Collections in %s, budgets in %s.",
				p.TopGlobal, p.ReferenceSource, p.GlobalList, p.GlobalUnit, p.GlobalBudget),
		},
		OutputFields: ItemFields,
		Rules: []string{
			"collectionNumeric must be a precise number, not a string.",
			"Order every list by collectionNumeric in descending order.",
		},
		OutputFormat: `A valid JSON object with exactly three keys: "running", "topIndian" and "topWorldwide".` + "\n" +
			"Each value is an array of objects with the keys " + quoteList(FieldNames(ItemFields)) + ".",
	}
	spec = ApplyPresets(spec, PresetSingleObject(), PresetGrounded())
	return RenderStructuredPrompt(spec)
}

func regionalLine(focus []string) string {
	if len(focus) == 0 {
		return ""
	}
	return fmt.Sprintf("Ensure specific accuracy for %s and all regional releases.\n", strings.Join(focus, ", "))
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = `"` + n + `"`
	}
	return strings.Join(quoted, ", ")
}
