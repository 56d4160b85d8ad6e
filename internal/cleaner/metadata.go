package cleaner

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dgallion1/provdir/internal/directory"
)

// Page-level metadata lives in the markdown headings the conversion step
// emits: a county banner and a specialty banner. Captured once per document;
// both default to empty when no heading matches.

var (
	countyTextRe   = regexp.MustCompile(`(?i)^([A-Z .-]+?)\s+COUNTY$`)
	pcpSpecialtyRe = regexp.MustCompile(`(?i)^.+PCP.+$`)
	titleCaser     = cases.Title(language.English)
)

type heading struct {
	level int
	text  string
}

// ExtractMetadata walks the markdown heading structure and captures the
// county and specialty banners for the given format.
func ExtractMetadata(raw string, format Format) directory.Metadata {
	headings := collectHeadings(raw)
	var meta directory.Metadata

	switch format {
	case FormatCALA:
		for _, h := range headings {
			if meta.County == "" && h.level == 2 {
				if m := countyTextRe.FindStringSubmatch(h.text); m != nil {
					meta.County = titleCaser.String(strings.TrimSpace(m[1])) + " County"
				}
			}
			if meta.Specialty == "" && (h.level == 3 || h.level == 4) && pcpSpecialtyRe.MatchString(h.text) {
				meta.Specialty = strings.TrimSpace(h.text)
			}
		}
	case FormatILCook:
		for _, h := range headings {
			if meta.County == "" && h.level == 3 {
				if countyTextRe.MatchString(h.text) {
					meta.County = titleCaser.String(strings.TrimSpace(h.text))
				}
			}
			if meta.Specialty == "" && h.level == 4 {
				meta.Specialty = strings.TrimSpace(h.text)
			}
		}
	}
	return meta
}

func collectHeadings(raw string) []heading {
	src := []byte(raw)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var headings []heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			headings = append(headings, heading{
				level: h.Level,
				text:  strings.TrimSpace(string(h.Text(src))),
			})
		}
	}
	return headings
}
