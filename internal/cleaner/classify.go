package cleaner

import (
	"regexp"
	"strings"
)

// LineClass labels a single canonical line. Classification is stateless;
// the segmenters own all state.
type LineClass int

const (
	ClassContent LineClass = iota // fallthrough: plain content
	ClassBlank
	ClassNoise // page furniture, discarded unconditionally
	ClassOrgHeader
	ClassProviderHeader
	ClassAddressStart
	ClassPhone
)

func (c LineClass) String() string {
	switch c {
	case ClassBlank:
		return "blank"
	case ClassNoise:
		return "noise"
	case ClassOrgHeader:
		return "organization-header"
	case ClassProviderHeader:
		return "provider-header"
	case ClassAddressStart:
		return "address-start"
	case ClassPhone:
		return "phone"
	default:
		return "content"
	}
}

// Page furniture left behind by the PDF conversion: banners, bare page
// numbers, horizontal rules, page-marker headings.
var pageBreakRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(\*+)?\s*Board Certified Provider`),
	regexp.MustCompile(`(?i)^PRIMARY CARE PROVIDERS$`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^-{3,}$`),
	regexp.MustCompile(`(?i)^#.*Primary Care Providers`),
	regexp.MustCompile(`(?i)^## Page \d+`),
}

var (
	addressStartRe = regexp.MustCompile(`^\d{3,5}\s+[\w\s.]+`)
	phoneRe        = regexp.MustCompile(`^\(\d{3}\)\s*\d{3}-\d{4}$`)
)

// IsPageBreak reports whether the line is discardable page furniture.
func IsPageBreak(line string) bool {
	s := strings.TrimSpace(line)
	for _, re := range pageBreakRes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// IsAddressStart reports whether the line opens a street address: a 3-5
// digit house number followed by word characters.
func IsAddressStart(line string) bool {
	return addressStartRe.MatchString(strings.TrimSpace(line))
}

// IsPhone reports whether the line is exactly a (DDD) DDD-DDDD phone number.
func IsPhone(line string) bool {
	return phoneRe.MatchString(strings.TrimSpace(line))
}

// rule pairs a predicate with the class it assigns. Rules are evaluated top
// to bottom, first match wins, so each format's priority order stays fixed.
type rule struct {
	class LineClass
	match func(string) bool
}

// Classifier labels canonical lines using a format's ordered rule list.
type Classifier struct {
	rules      []rule
	providerRe *regexp.Regexp
	orgRe      *regexp.Regexp
}

// NewClassifier compiles the rule list for a format. Priority order:
//
//	ca_la:   blank, page-break, provider-header, content
//	il_cook: blank, page-break, organization-header, address-start,
//	         phone, provider-header, content
//
// The organization check deliberately precedes the address check, matching
// the documented scan order for the grouped layout.
func NewClassifier(cfg FormatConfig) *Classifier {
	c := &Classifier{
		providerRe: providerHeaderRe(cfg.ProviderSuffixes),
	}
	if len(cfg.OrgKeywords) > 0 {
		c.orgRe = orgKeywordRe(cfg.OrgKeywords)
	}

	c.rules = append(c.rules,
		rule{ClassBlank, func(s string) bool { return strings.TrimSpace(s) == "" }},
		rule{ClassNoise, IsPageBreak},
	)
	if c.orgRe != nil {
		c.rules = append(c.rules,
			rule{ClassOrgHeader, func(s string) bool { return c.orgRe.MatchString(s) }},
			rule{ClassAddressStart, IsAddressStart},
			rule{ClassPhone, IsPhone},
		)
	}
	c.rules = append(c.rules,
		rule{ClassProviderHeader, func(s string) bool { return c.providerRe.MatchString(strings.TrimSpace(s)) }},
	)
	return c
}

// Classify labels a canonical line. Never fails: an unmatched line is plain
// content.
func (c *Classifier) Classify(line string) LineClass {
	for _, r := range c.rules {
		if r.match(line) {
			return r.class
		}
	}
	return ClassContent
}

// IsProviderHeader reports whether the line has the provider-header shape
// for this format: "<Capitalized>, <rest> <SUFFIX>".
func (c *Classifier) IsProviderHeader(line string) bool {
	return c.providerRe.MatchString(strings.TrimSpace(line))
}

// IsOrgHeader reports whether the line contains one of the format's
// organization keywords as a whole word.
func (c *Classifier) IsOrgHeader(line string) bool {
	return c.orgRe != nil && c.orgRe.MatchString(line)
}

func providerHeaderRe(suffixes []string) *regexp.Regexp {
	return regexp.MustCompile(`^[*]*[A-Z][^,]+, .+\b(` + strings.Join(suffixes, "|") + `)[*]*$`)
}

// orgKeywordRe matches keywords whole-word and case-insensitively, so "SC"
// never fires inside an unrelated word.
func orgKeywordRe(keywords []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(` + strings.Join(keywords, "|") + `)\b`)
}
