// Package cleaner normalizes converted provider-directory markdown and
// recovers its record structure. The input has only positional and visual
// structure — indentation, bolding, line order — so the package runs a
// layout-aware line scan per format dialect: normalize each line, classify
// it, group lines into provider/organization blocks, and pack whole blocks
// into size-bounded chunks for extraction.
package cleaner

import (
	"strings"

	"github.com/dgallion1/provdir/internal/directory"
)

// Result is one full cleaning pass over a document.
type Result struct {
	Meta     directory.Metadata
	Segments *Segments
	Chunks   []string
}

// Clean runs the whole pass: metadata capture, segmentation, chunking.
func Clean(raw string, cfg FormatConfig) *Result {
	meta := ExtractMetadata(raw, cfg.Format)
	segs := NewSegmenter(cfg, meta).Segment(strings.Split(raw, "\n"))
	return &Result{
		Meta:     meta,
		Segments: segs,
		Chunks:   Chunk(segs, ChunkConfigFor(cfg)),
	}
}
