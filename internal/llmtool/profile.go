package llmtool

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile holds the parts of the dashboard prompt that vary by market.
type Profile struct {
	Market          string   `yaml:"market"`
	StatusSource    string   `yaml:"status_source"`
	ReferenceSource string   `yaml:"reference_source"`
	TradeAnalysts   []string `yaml:"trade_analysts"`
	DomesticList    string   `yaml:"domestic_list"`
	GlobalList      string   `yaml:"global_list"`
	TopDomestic     int      `yaml:"top_domestic"`
	TopGlobal       int      `yaml:"top_global"`
	RegionalFocus   []string `yaml:"regional_focus"`
	DomesticUnit    string   `yaml:"domestic_unit"`
	GlobalUnit      string   `yaml:"global_unit"`
	GlobalBudget    string   `yaml:"global_budget_unit"`
}

// DefaultProfile is the Indian market setup.
func DefaultProfile() Profile {
	return Profile{
		Market:          "Indian",
		StatusSource:    "BookMyShow",
		ReferenceSource: "Wikipedia",
		TradeAnalysts:   []string{"Sacnilk"},
		DomesticList:    "List of highest-grossing Indian films",
		GlobalList:      "List of highest-grossing films",
		TopDomestic:     10,
		TopGlobal:       10,
		RegionalFocus:   []string{"Marathi", "Gujarati", "South Indian"},
		DomesticUnit:    "INR Crores",
		GlobalUnit:      "USD Billions",
		GlobalBudget:    "USD Millions",
	}
}

var ErrInvalidProfile = errors.New("llmtool: invalid prompt profile")

// LoadProfile reads a YAML profile. Keys missing from the file keep their
// defaults; an empty path returns DefaultProfile.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if strings.TrimSpace(path) == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("llmtool: read profile: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Profile{}, fmt.Errorf("llmtool: parse profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (p Profile) Validate() error {
	switch {
	case p.TopDomestic <= 0:
		return fmt.Errorf("%w: top_domestic must be positive, got %d", ErrInvalidProfile, p.TopDomestic)
	case p.TopGlobal <= 0:
		return fmt.Errorf("%w: top_global must be positive, got %d", ErrInvalidProfile, p.TopGlobal)
	case strings.TrimSpace(p.StatusSource) == "":
		return fmt.Errorf("%w: status_source is empty", ErrInvalidProfile)
	case strings.TrimSpace(p.ReferenceSource) == "":
		return fmt.Errorf("%w: reference_source is empty", ErrInvalidProfile)
	}
	return nil
}
