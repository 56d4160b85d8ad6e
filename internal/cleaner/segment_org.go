package cleaner

import "strings"

// orgSegmenter implements the organization-centric scan. An organization
// header announces itself once and then owns everything until the next one.
// Addresses are multi-line and only unambiguously end at a phone line or a
// blank/boundary, so they are buffered and flushed as one unit. The header
// itself is withheld until an address or provider actually attaches, which
// keeps organizations that appear only in page furniture out of the output.
type orgSegmenter struct {
	cfg        FormatConfig
	classifier *Classifier

	segs    *Segments
	pending string // decorated org header awaiting content
	current *Block // open organization block, nil until content attaches
	curProv *Block // open provider block nested under current
	addrBuf []string
	inAddr  bool
}

func newOrgSegmenter(cfg FormatConfig) *orgSegmenter {
	return &orgSegmenter{
		cfg:        cfg,
		classifier: NewClassifier(cfg),
	}
}

func (s *orgSegmenter) Segment(lines []string) *Segments {
	s.segs = &Segments{}
	s.pending = ""
	s.current = nil
	s.curProv = nil
	s.addrBuf = nil
	s.inAddr = false

	for _, raw := range lines {
		if IsPageBreak(raw) {
			continue
		}

		stripped := strings.TrimSpace(raw)
		if stripped == "" {
			// A blank closes a dangling address buffer rather than losing
			// it, then passes through as a block separator.
			if s.inAddr && len(s.addrBuf) > 0 {
				s.flushAddress("")
			}
			s.emit("")
			continue
		}

		line := Normalize(StripHeadingHashes(stripped))

		switch {
		case s.classifier.IsOrgHeader(line):
			// New owner; held back until something attaches to it.
			s.curProv = nil
			s.current = nil
			s.pending = "**" + line + "**"

		case IsAddressStart(line):
			if s.inAddr && len(s.addrBuf) > 0 {
				s.flushAddress("")
			}
			s.addrBuf = []string{line}
			s.inAddr = true

		case s.inAddr:
			if IsPhone(line) {
				s.flushAddress(line)
			} else {
				s.addrBuf = append(s.addrBuf, line)
			}

		case s.classifier.IsProviderHeader(line):
			s.openProvider(line)

		default:
			s.emit(line)
		}
	}

	// An unterminated address at end of input is flushed, never dropped.
	if s.inAddr && len(s.addrBuf) > 0 {
		s.flushAddress("")
	}
	return s.segs
}

// ensureOrg materializes the pending organization block on first content.
func (s *orgSegmenter) ensureOrg() *Block {
	if s.current == nil && s.pending != "" {
		s.current = &Block{Kind: KindOrganization, Header: s.pending}
		s.segs.Blocks = append(s.segs.Blocks, s.current)
	}
	return s.current
}

// emit appends a content line to the innermost open context: the open
// provider, else the open organization, else the leading buffer.
func (s *orgSegmenter) emit(line string) {
	switch {
	case s.curProv != nil && s.current == nil:
		// Standalone provider block: everything stays with it so document
		// order survives rendering.
		s.curProv.Info = append(s.curProv.Info, line)
	case s.curProv != nil && line != "":
		s.curProv.Info = append(s.curProv.Info, line)
		s.current.body = append(s.current.body, line)
	case s.current != nil:
		s.current.body = append(s.current.body, line)
	case line != "" && s.ensureOrg() != nil:
		// Plain content materializes the withheld header; blanks do not.
		s.current.body = append(s.current.body, line)
	default:
		s.appendTail(line)
	}
}

// appendTail keeps separator lines in document order when no block is open:
// they trail the last emitted block, or lead the document.
func (s *orgSegmenter) appendTail(line string) {
	if n := len(s.segs.Blocks); n > 0 {
		last := s.segs.Blocks[n-1]
		if last.Kind == KindProvider {
			last.Info = append(last.Info, line)
		} else {
			last.body = append(last.body, line)
		}
		return
	}
	s.segs.Leading = append(s.segs.Leading, line)
}

// openProvider nests a provider block under the current organization, or
// emits it standalone when no organization has been seen.
func (s *orgSegmenter) openProvider(line string) {
	header := Decorate(line, s.cfg.ProviderSuffixes)
	prov := &Block{Kind: KindProvider, Header: header}

	if org := s.ensureOrg(); org != nil {
		prov.Org = org.HeaderText()
		org.Providers = append(org.Providers, prov)
		org.body = append(org.body, header)
	} else {
		s.segs.Blocks = append(s.segs.Blocks, prov)
	}
	s.curProv = prov
}

// flushAddress closes the buffered address and attaches it to its owning
// organization. phone is empty when the buffer ended at a blank line, a new
// street line, or end of input.
func (s *orgSegmenter) flushAddress(phone string) {
	unit := AddressUnit{Lines: s.addrBuf, Phone: phone}
	rendered := append([]string(nil), unit.Lines...)
	if phone != "" {
		rendered = append(rendered, phone)
	}

	if org := s.ensureOrg(); org != nil {
		s.curProv = nil
		org.Addresses = append(org.Addresses, unit)
		org.body = append(org.body, rendered...)
	} else if s.curProv != nil {
		s.curProv.Info = append(s.curProv.Info, rendered...)
	} else {
		s.segs.Leading = append(s.segs.Leading, rendered...)
	}

	s.addrBuf = nil
	s.inAddr = false
}
