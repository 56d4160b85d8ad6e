package cleaner

import (
	"strings"
	"testing"

	"github.com/dgallion1/provdir/internal/directory"
)

func personSegments(t *testing.T, raw string, meta directory.Metadata) *Segments {
	t.Helper()
	cfg, err := ConfigFor(FormatCALA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewSegmenter(cfg, meta).Segment(strings.Split(raw, "\n"))
}

func TestPersonSegmenter_TwoProviders(t *testing.T) {
	raw := "Smith, John MD\n123 Main St\n(555) 123-4567\nDoe, Jane DO\n456 Oak Ave"
	segs := personSegments(t, raw, directory.Metadata{})

	if len(segs.Blocks) != 2 {
		t.Fatalf("expected 2 provider blocks, got %d", len(segs.Blocks))
	}
	first, second := segs.Blocks[0], segs.Blocks[1]

	if first.Header != "**Smith, John MD**" {
		t.Errorf("first header = %q, want %q", first.Header, "**Smith, John MD**")
	}
	if len(first.Info) != 2 {
		t.Fatalf("first block: expected 2 info lines, got %d", len(first.Info))
	}
	if second.Header != "**Doe, Jane DO**" {
		t.Errorf("second header = %q, want %q", second.Header, "**Doe, Jane DO**")
	}
	if len(second.Info) != 1 || second.Info[0] != "456 Oak Ave" {
		t.Errorf("second block info = %v, want [456 Oak Ave]", second.Info)
	}
}

func TestPersonSegmenter_PageFurnitureNeverReachesBlocks(t *testing.T) {
	raw := strings.Join([]string{
		"## Page 3",
		"PRIMARY CARE PROVIDERS",
		"Smith, John MD",
		"42",
		"123 Main St",
		"---",
		"(555) 123-4567",
		"**Board Certified Provider**",
	}, "\n")
	segs := personSegments(t, raw, directory.Metadata{})

	if len(segs.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(segs.Blocks))
	}
	for _, line := range segs.Blocks[0].Info {
		if IsPageBreak(line) {
			t.Errorf("page furniture leaked into block info: %q", line)
		}
	}
	if len(segs.Blocks[0].Info) != 2 {
		t.Errorf("expected 2 info lines after furniture removal, got %v", segs.Blocks[0].Info)
	}
}

func TestPersonSegmenter_BannerRepeatsDiscardedOnceCaptured(t *testing.T) {
	meta := directory.Metadata{County: "Los Angeles County", Specialty: "Family Medicine PCP Listing"}
	raw := strings.Join([]string{
		"## LOS ANGELES COUNTY",
		"### Family Medicine PCP Listing",
		"Smith, John MD",
		"123 Main St",
	}, "\n")
	segs := personSegments(t, raw, meta)

	if len(segs.Leading) != 0 {
		t.Errorf("expected banner repeats discarded, got leading %v", segs.Leading)
	}
	if len(segs.Blocks) != 1 || len(segs.Blocks[0].Info) != 1 {
		t.Fatalf("expected 1 block with 1 info line, got %+v", segs.Blocks)
	}
}

func TestPersonSegmenter_OrphanLinesBufferBeforeFirstHeader(t *testing.T) {
	raw := "stray continuation line\nSmith, John MD\n123 Main St"
	segs := personSegments(t, raw, directory.Metadata{})

	if len(segs.Leading) != 1 || segs.Leading[0] != "stray continuation line" {
		t.Errorf("expected orphan line buffered, got %v", segs.Leading)
	}
	if len(segs.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(segs.Blocks))
	}
}

func TestPersonSegmenter_OpenProviderFlushedAtEndOfInput(t *testing.T) {
	segs := personSegments(t, "Smith, John MD", directory.Metadata{})
	if len(segs.Blocks) != 1 {
		t.Fatalf("expected trailing open block to be emitted, got %d blocks", len(segs.Blocks))
	}
	if len(segs.Blocks[0].Info) != 0 {
		t.Errorf("expected no info lines, got %v", segs.Blocks[0].Info)
	}
}
