package parser

import (
	"io"
)

// TextParser handles plain text and markdown files. The content passes
// through unchanged so emphasis markers survive, with form feeds taken
// as page boundaries.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return &Document{
		Name:  docName(filename),
		Pages: pagesFromText(string(src)),
	}, nil
}
