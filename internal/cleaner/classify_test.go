package cleaner

import "testing"

func TestIsPageBreak(t *testing.T) {
	breaks := []string{
		"42",
		"---",
		"-------",
		"PRIMARY CARE PROVIDERS",
		"Board Certified Provider listing continues",
		"**Board Certified Provider**",
		"# Los Angeles Primary Care Providers",
		"## Page 17",
	}
	for _, line := range breaks {
		if !IsPageBreak(line) {
			t.Errorf("expected %q to classify as page break", line)
		}
	}

	content := []string{
		"Smith, John MD",
		"123 Main St",
		"(555) 123-4567",
		"Acme Medical Group",
		"Page forty-two",
	}
	for _, line := range content {
		if IsPageBreak(line) {
			t.Errorf("expected %q not to classify as page break", line)
		}
	}
}

func TestIsAddressStart(t *testing.T) {
	yes := []string{"123 Main St", "4500 W Fullerton Ave", "78912 Elm St."}
	for _, line := range yes {
		if !IsAddressStart(line) {
			t.Errorf("expected %q to classify as address start", line)
		}
	}
	no := []string{"12 Main St", "Suite 400", "Main St 123", "(555) 123-4567"}
	for _, line := range no {
		if IsAddressStart(line) {
			t.Errorf("expected %q not to classify as address start", line)
		}
	}
}

func TestIsPhone(t *testing.T) {
	if !IsPhone("(555) 123-4567") {
		t.Error("expected exact phone shape to match")
	}
	if !IsPhone("(555)123-4567") {
		t.Error("expected phone without space to match")
	}
	for _, line := range []string{"555-123-4567", "(555) 123-4567 ext 2", "call (555) 123-4567"} {
		if IsPhone(line) {
			t.Errorf("expected %q not to classify as phone", line)
		}
	}
}

func TestClassifier_ProviderHeaderShapes(t *testing.T) {
	cfg, err := ConfigFor(FormatCALA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := NewClassifier(cfg)

	yes := []string{
		"Smith, John MD",
		"Doe, Jane Marie DO",
		"Jarava, Abelardo SC",
		"**Nguyen, An MD**",
	}
	for _, line := range yes {
		if !c.IsProviderHeader(line) {
			t.Errorf("expected %q to classify as provider header", line)
		}
	}

	no := []string{
		"Smith John MD",       // no comma
		"smith, john MD",      // lowercase start
		"Smith, John",         // no credential suffix
		"Smith, John MD FACP", // trailing tokens after suffix
	}
	for _, line := range no {
		if c.IsProviderHeader(line) {
			t.Errorf("expected %q not to classify as provider header", line)
		}
	}
}

func TestClassifier_GroupedFormatExcludesSCProviders(t *testing.T) {
	cfg, err := ConfigFor(FormatILCook)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := NewClassifier(cfg)

	// In the grouped layout a trailing SC denotes a service corporation,
	// so the line is an organization, not a clinician.
	if c.IsProviderHeader("Jarava, Abelardo SC") {
		t.Error("expected SC-suffixed name to be rejected as provider")
	}
	if !c.IsOrgHeader("Abelardo J Jarava MD SC") {
		t.Error("expected SC-suffixed name to match organization keywords")
	}
	if !c.IsProviderHeader("Jarava, Abelardo MD") {
		t.Error("expected MD-suffixed name to classify as provider")
	}
}

func TestClassifier_OrgKeywordsWholeWordCaseInsensitive(t *testing.T) {
	cfg, err := ConfigFor(FormatILCook)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := NewClassifier(cfg)

	yes := []string{
		"Advocate Medical Group",
		"7 Hills HealthCare Center",
		"mount sinai hospital",
		"NORTHWEST CLINIC LTD",
	}
	for _, line := range yes {
		if !c.IsOrgHeader(line) {
			t.Errorf("expected %q to classify as organization header", line)
		}
	}

	// "SC" must not fire inside unrelated words.
	no := []string{
		"Scott Thompson",
		"Wisconsin Avenue Pharmacy",
		"Groupthink Books", // "Group" only as prefix of a longer word
	}
	for _, line := range no {
		if c.IsOrgHeader(line) {
			t.Errorf("expected %q not to classify as organization header", line)
		}
	}
}

func TestClassifier_ClassifyPriorityOrder(t *testing.T) {
	cfg, err := ConfigFor(FormatILCook)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := NewClassifier(cfg)

	cases := []struct {
		line string
		want LineClass
	}{
		{"", ClassBlank},
		{"   ", ClassBlank},
		{"42", ClassNoise},
		{"Advocate Medical Group", ClassOrgHeader},
		{"123 Main St", ClassAddressStart},
		{"(555) 123-4567", ClassPhone},
		{"Smith, John MD", ClassProviderHeader},
		{"PCP#1234", ClassContent},
		{"Languages: Spanish; Polish", ClassContent},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.line); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.line, got, tc.want)
		}
	}
}
