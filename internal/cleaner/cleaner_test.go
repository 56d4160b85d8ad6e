package cleaner

import (
	"strings"
	"testing"
)

const personDoc = `## Page 1
## LOS ANGELES COUNTY
### Family Medicine PCP Listing

Smith, John MD
123 Main St
Los Angeles, CA 90001
(555) 123-4567
Languages: Spanish

42
---
## Page 2
Doe, Jane DO
456 Oak Ave
Los Angeles, CA 90002
(555) 987-6543
`

func TestClean_PersonDocumentEndToEnd(t *testing.T) {
	cfg, err := ConfigFor(FormatCALA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := Clean(personDoc, cfg)

	if res.Meta.County != "Los Angeles County" {
		t.Errorf("county = %q", res.Meta.County)
	}
	if len(res.Segments.Blocks) != 2 {
		t.Fatalf("expected 2 provider blocks, got %d", len(res.Segments.Blocks))
	}
	if len(res.Chunks) != 1 {
		t.Fatalf("expected a single chunk under default budget, got %d", len(res.Chunks))
	}
	for _, bad := range []string{"## Page", "42\n", "---"} {
		if strings.Contains(res.Chunks[0], bad) {
			t.Errorf("page furniture %q leaked into chunk", bad)
		}
	}
}

const groupedDoc = `### COOK COUNTY
#### Internal Medicine

**Acme Medical Group**
123 Main St
Chicago, IL 60601
(555) 999-0000
Smith, John MD
PCP#1234

**7 Hills HealthCare Center**
789 Elm St
Chicago, IL 60602
(555) 111-2222
`

func TestClean_GroupedDocumentEndToEnd(t *testing.T) {
	cfg, err := ConfigFor(FormatILCook)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := Clean(groupedDoc, cfg)

	if res.Meta.County != "Cook County" {
		t.Errorf("county = %q", res.Meta.County)
	}
	if res.Meta.Specialty != "Internal Medicine" {
		t.Errorf("specialty = %q", res.Meta.Specialty)
	}

	var orgs []string
	for _, b := range res.Segments.Blocks {
		if b.Kind == KindOrganization {
			orgs = append(orgs, b.HeaderText())
		}
	}
	want := []string{"Acme Medical Group", "7 Hills HealthCare Center"}
	if strings.Join(orgs, "|") != strings.Join(want, "|") {
		t.Errorf("organizations = %v, want %v", orgs, want)
	}

	joined := strings.Join(res.Chunks, "\n")
	if joined != strings.Join(res.Segments.Lines(), "\n") {
		t.Error("concatenated chunks do not reproduce the cleaned line sequence")
	}
}
