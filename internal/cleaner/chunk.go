package cleaner

import "strings"

// Chunking splits the segmented document into size-bounded text segments for
// the inference service. Boundaries fall only between blocks; a block is
// never split, because cutting a provider's record in half corrupts the
// downstream extraction. A single block over budget is emitted alone.

// ChunkConfig controls packing.
type ChunkConfig struct {
	Budget int
	Unit   BudgetUnit

	// OrgBoundaryOnly restricts new segments to organization-header blocks,
	// preserving the organization→provider nesting within one chunk. Set
	// for the organization-centric format.
	OrgBoundaryOnly bool
}

// ChunkConfigFor derives packing rules from a format's cleaning rules.
func ChunkConfigFor(cfg FormatConfig) ChunkConfig {
	return ChunkConfig{
		Budget:          cfg.Budget,
		Unit:            cfg.Unit,
		OrgBoundaryOnly: cfg.Format == FormatILCook,
	}
}

// Chunk greedily packs whole blocks into segments within the budget. Leading
// unattached lines ride along in the first segment. Joining the returned
// segments with newlines reproduces the full cleaned line sequence.
func Chunk(segs *Segments, cfg ChunkConfig) []string {
	if cfg.Budget <= 0 {
		cfg.Budget = DefaultBudget
	}

	var chunks []string
	var current []string
	cost := 0

	for _, line := range segs.Leading {
		current = append(current, line)
		cost += lineCost(line, cfg.Unit)
	}

	for _, b := range segs.Blocks {
		lines := b.Lines()
		blockCost := 0
		for _, line := range lines {
			blockCost += lineCost(line, cfg.Unit)
		}

		breakable := !cfg.OrgBoundaryOnly || b.Kind == KindOrganization
		if breakable && len(current) > 0 && cost+blockCost > cfg.Budget {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = nil
			cost = 0
		}

		current = append(current, lines...)
		cost += blockCost
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}

func lineCost(line string, unit BudgetUnit) int {
	if unit == UnitChars {
		return len(line) + 1 // the joining newline counts too
	}
	return len(strings.Fields(line))
}
