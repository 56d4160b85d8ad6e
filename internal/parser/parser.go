// Package parser converts source documents (PDF, DOCX, HTML, markdown,
// plain text) into the paged markdown text the cleaner consumes.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Page is one page of converted text.
type Page struct {
	Number int
	Text   string
}

// Document is the converted form of one source file.
type Document struct {
	Name  string
	Pages []Page
}

// Markdown renders the document with a "## Page N" marker before each
// page and a rule after it, matching the layout the cleaner's page-break
// rules strip.
func (d *Document) Markdown() string {
	var sb strings.Builder
	for _, p := range d.Pages {
		fmt.Fprintf(&sb, "## Page %d\n%s\n---\n", p.Number, strings.TrimSpace(p.Text))
	}
	return sb.String()
}

// Parser converts raw document bytes into a paged Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Options adjusts parser construction.
type Options struct {
	// FallbackPdftotext allows shelling out to pdftotext when the
	// in-process PDF extractor yields no text.
	FallbackPdftotext bool
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".md", ".markdown":
		return &TextParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// pagesFromText splits already-extracted text on form feeds and drops
// empty pages, numbering the rest from 1.
func pagesFromText(text string) []Page {
	var pages []Page
	for _, chunk := range strings.Split(text, "\f") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		pages = append(pages, Page{Number: len(pages) + 1, Text: chunk})
	}
	return pages
}

func docName(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}
