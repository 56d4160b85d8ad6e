package cleaner

import (
	"regexp"
	"strings"

	"github.com/dgallion1/provdir/internal/directory"
)

// Segmenter groups a raw line stream into ordered blocks. Each call is a
// single forward pass; segmenters hold per-document state and must not be
// shared across documents.
type Segmenter interface {
	Segment(lines []string) *Segments
}

// NewSegmenter returns the scanner for the format. Metadata is needed so the
// person-centric scan can discard the county/specialty banner repeats the
// conversion leaves on every page.
func NewSegmenter(cfg FormatConfig, meta directory.Metadata) Segmenter {
	if cfg.Format == FormatILCook {
		return newOrgSegmenter(cfg)
	}
	return newPersonSegmenter(cfg, meta)
}

// personSegmenter implements the person-centric scan: a provider header
// starts a block, every following non-noise line is that provider's info
// until the next header. No organization concept exists in this layout.
type personSegmenter struct {
	cfg        FormatConfig
	classifier *Classifier
	skipRes    []*regexp.Regexp
}

func newPersonSegmenter(cfg FormatConfig, meta directory.Metadata) *personSegmenter {
	s := &personSegmenter{
		cfg:        cfg,
		classifier: NewClassifier(cfg),
	}
	// Once captured, the county and specialty banners are noise wherever
	// they repeat. Match on the banner's first word, as printed.
	if meta.County != "" {
		s.skipRes = append(s.skipRes, regexp.MustCompile(
			`(?i)^##\s*`+regexp.QuoteMeta(firstWord(meta.County))))
	}
	if meta.Specialty != "" {
		s.skipRes = append(s.skipRes, regexp.MustCompile(
			`(?i)^###?\s*`+regexp.QuoteMeta(firstWord(meta.Specialty))))
	}
	return s
}

func (s *personSegmenter) Segment(lines []string) *Segments {
	segs := &Segments{}
	var current *Block

	flush := func() {
		if current != nil {
			segs.Blocks = append(segs.Blocks, current)
			current = nil
		}
	}

	for _, raw := range lines {
		line := Normalize(raw)
		if line == "" || IsPageBreak(line) || s.isBannerRepeat(line) {
			continue
		}
		if strings.HasPrefix(line, "#") {
			// Remaining headings carry no record content.
			continue
		}

		if s.classifier.IsProviderHeader(line) {
			flush()
			current = &Block{
				Kind:   KindProvider,
				Header: Decorate(line, s.cfg.ProviderSuffixes),
			}
			continue
		}

		if current != nil {
			current.Info = append(current.Info, line)
		} else {
			segs.Leading = append(segs.Leading, line)
		}
	}
	flush()
	return segs
}

func (s *personSegmenter) isBannerRepeat(line string) bool {
	for _, re := range s.skipRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return s
}
