package cleaner

import (
	"regexp"
	"strings"
)

// Line-level normalization. The converted markdown arrives with emphasis
// markers, heading hashes, zero-width characters and ragged whitespace from
// the PDF conversion; everything downstream works on canonical lines.

var (
	leadingEmphasisRe  = regexp.MustCompile(`^\*+\s*`)
	trailingEmphasisRe = regexp.MustCompile(`\s*\*+$`)
	multiSpaceRe       = regexp.MustCompile(`\s{2,}`)
	headingHashRe      = regexp.MustCompile(`^#{1,6}\s*`)
	wrappedBoldRe      = regexp.MustCompile(`^\*{1,2}(.*?)\*{1,2}$`)
)

// Normalize strips emphasis markers, zero-width spaces and repeated
// whitespace from a raw line. Idempotent: normalizing an already-normalized
// line is a no-op.
func Normalize(raw string) string {
	line := leadingEmphasisRe.ReplaceAllString(raw, "")
	line = trailingEmphasisRe.ReplaceAllString(line, "")
	line = strings.ReplaceAll(line, "​", "")
	line = multiSpaceRe.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}

// StripHeadingHashes removes a leading markdown heading marker.
func StripHeadingHashes(line string) string {
	return strings.TrimSpace(headingHashRe.ReplaceAllString(line, ""))
}

// StripBold unwraps a line bolded end to end, leaving inner text unchanged.
func StripBold(line string) string {
	return wrappedBoldRe.ReplaceAllString(strings.TrimSpace(line), "$1")
}

// IsBold reports whether the line is bolded end to end.
func IsBold(line string) bool {
	s := strings.TrimSpace(line)
	return strings.HasPrefix(s, "**") && strings.HasSuffix(s, "**") && len(s) > 4
}

// Decorate re-bolds a canonical line that ends in a credential or
// organization-type suffix, restoring the visual weight headers carry in the
// printed directory. Other lines pass through unchanged.
func Decorate(line string, suffixes []string) string {
	clean := strings.TrimSpace(strings.Trim(line, "* "))
	for _, suffix := range suffixes {
		if strings.HasSuffix(clean, " "+suffix) || clean == suffix {
			return "**" + clean + "**"
		}
	}
	return clean
}
