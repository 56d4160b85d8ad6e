package cleaner

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a directory layout dialect. The cleaning rules are fixed
// per format; new layouts are supported by adding a new FormatConfig, not by
// generalizing the scan.
type Format string

const (
	// FormatCALA is the person-centric layout: every provider header starts
	// an independent, self-contained block.
	FormatCALA Format = "ca_la"
	// FormatILCook is the organization-centric layout: a practice header
	// owns the addresses, phones and providers that follow it.
	FormatILCook Format = "il_cook"
)

// BudgetUnit selects how chunk size is measured.
type BudgetUnit int

const (
	UnitTokens BudgetUnit = iota // whitespace-delimited token count
	UnitChars                    // raw character count
)

// FormatConfig carries the per-dialect cleaning rules.
type FormatConfig struct {
	Format Format

	// ProviderSuffixes are credential tokens that end a provider header
	// line. The organization-centric layout excludes "SC" because there it
	// denotes a service corporation, not a clinician credential.
	ProviderSuffixes []string

	// OrgKeywords mark a line as an organization header. Matched whole-word,
	// case-insensitive. Empty for layouts with no organization concept.
	OrgKeywords []string

	// Chunk budget.
	Budget int
	Unit   BudgetUnit
}

// DefaultBudget matches the original pipeline's per-chunk limit.
const DefaultBudget = 1000

// ConfigFor returns the cleaning rules for a known format.
func ConfigFor(format Format) (FormatConfig, error) {
	switch format {
	case FormatCALA:
		return FormatConfig{
			Format:           FormatCALA,
			ProviderSuffixes: []string{"MD", "DO", "SC"},
			Budget:           DefaultBudget,
			Unit:             UnitTokens,
		}, nil
	case FormatILCook:
		return FormatConfig{
			Format:           FormatILCook,
			ProviderSuffixes: []string{"MD", "DO"},
			OrgKeywords: []string{
				"Center", "Clinic", "Health", "Hospital", "Medical",
				"Network", "Group", "Access", "SC", "Ltd", "Inc",
				"Partners", "Associates", "Sinai", "Midwest", "Practice",
			},
			Budget: DefaultBudget,
			Unit:   UnitChars,
		}, nil
	default:
		return FormatConfig{}, fmt.Errorf("unknown directory format: %q", format)
	}
}

// DetectFormat picks a format from a document filename by substring, the way
// the source PDFs are named (e.g. "medicare_ca_la_2024.pdf").
func DetectFormat(filename string) (Format, error) {
	name := strings.ToLower(filepath.Base(filename))
	switch {
	case strings.Contains(name, string(FormatCALA)):
		return FormatCALA, nil
	case strings.Contains(name, string(FormatILCook)):
		return FormatILCook, nil
	default:
		return "", fmt.Errorf("cannot determine directory format from filename %q", filename)
	}
}
