package cleaner

import "strings"

// Kind tags a block as a single provider or an organization carrying nested
// providers.
type Kind int

const (
	KindProvider Kind = iota
	KindOrganization
)

// AddressUnit is one street address attributed to an organization: the
// numeric-street line, optional continuation lines, and the phone that
// closed the buffer. Phone is empty when the buffer was flushed at a blank
// line or end of input instead of a terminating phone.
type AddressUnit struct {
	Lines []string
	Phone string
}

// Block is a contiguous run of lines describing one provider or one
// organization. Body holds the rendered content lines after the header in
// original document order; Info, Addresses and Providers are structured
// views over the same content.
type Block struct {
	Kind   Kind
	Header string // decorated header line

	// Provider blocks.
	Info []string // address/phone/language fragments, in order
	Org  string   // owning organization name, "" when standalone

	// Organization blocks.
	Addresses []AddressUnit
	Providers []*Block

	body []string
}

// HeaderText returns the header without decoration markers.
func (b *Block) HeaderText() string {
	return StripBold(b.Header)
}

// Lines renders the block: header first, then content in document order.
func (b *Block) Lines() []string {
	out := make([]string, 0, 1+len(b.body)+len(b.Info))
	if b.Header != "" {
		out = append(out, b.Header)
	}
	if b.Kind == KindProvider {
		return append(out, b.Info...)
	}
	return append(out, b.body...)
}

// Text renders the block as newline-joined lines.
func (b *Block) Text() string {
	return strings.Join(b.Lines(), "\n")
}

// Segments is the ordered output of one segmentation pass: the blocks in
// document order plus any stray lines seen before the first block header.
type Segments struct {
	Leading []string
	Blocks  []*Block
}

// Lines renders the whole cleaned document: leading stray lines followed by
// every block in order. Chunking splits exactly this sequence, so joining
// all chunks reproduces it.
func (s *Segments) Lines() []string {
	var out []string
	out = append(out, s.Leading...)
	for _, b := range s.Blocks {
		out = append(out, b.Lines()...)
	}
	return out
}
