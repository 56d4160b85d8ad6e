package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/provdir/internal/cleaner"
	"github.com/dgallion1/provdir/internal/config"
	"github.com/dgallion1/provdir/internal/directory"
	"github.com/dgallion1/provdir/internal/export"
	"github.com/dgallion1/provdir/internal/extract"
	"github.com/dgallion1/provdir/internal/parser"
)

// Worker processes a single document job.
type Worker struct {
	llm   *extract.Client
	stats *extract.LLMStats
	store *JobStore
	log   *slog.Logger
	cfg   config.Config
}

func NewWorker(llm *extract.Client, stats *extract.LLMStats, store *JobStore, log *slog.Logger, cfg config.Config) *Worker {
	return &Worker{
		llm:   llm,
		stats: stats,
		store: store,
		log:   log,
		cfg:   cfg,
	}
}

// Process runs the full extraction pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, parser.Options{FallbackPdftotext: w.cfg.PDFFallbackPdftotext})
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	raw := doc.Markdown()
	job.SetContentHash(ContentHashHex([]byte(raw)))

	// Phase 1.5: Dedup check against earlier finished jobs.
	if prev := w.store.FindCompletedByHash(job.ContentHash, job.ID); prev != nil {
		log.Info("duplicate document, skipping", "existing_job_id", prev.ID)
		job.SetRecords(prev.Records())
		job.SetOutputPath(prev.OutputPath)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 2: Clean and chunk.
	job.SetStatus(StatusCleaning, "cleaning")
	format := job.Format
	if format == "" {
		format, err = cleaner.DetectFormat(job.Filename)
		if err != nil {
			log.Error("format detection failed", "error", err)
			job.AddError(err.Error())
			job.SetStatus(StatusFailed, "cleaning")
			return
		}
	}
	cleanCfg, err := cleaner.ConfigFor(format)
	if err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "cleaning")
		return
	}
	if w.cfg.ChunkBudget > 0 {
		cleanCfg.Budget = w.cfg.ChunkBudget
	}

	result := cleaner.Clean(raw, cleanCfg)
	job.SetTotalChunks(len(result.Chunks))
	log.Info("cleaned document", "format", format, "blocks", len(result.Segments.Blocks), "chunks", len(result.Chunks),
		"county", result.Meta.County, "specialty", result.Meta.Specialty)

	if w.cfg.KeepIntermediate {
		if err := w.writeIntermediate(doc.Name, raw, result); err != nil {
			log.Warn("intermediate write failed", "error", err)
		}
	}

	if len(result.Chunks) == 0 {
		log.Warn("no chunks produced")
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "cleaning")
		return
	}

	// Phase 3: Extract records from chunks with bounded concurrency. Each
	// chunk also carries its predecessor for blocks cut at a page boundary.
	job.SetStatus(StatusExtracting, "extracting")
	type chunkResult struct {
		records []directory.Record
		err     error
		idx     int
	}
	results := make(chan chunkResult, len(result.Chunks))
	sem := make(chan struct{}, w.cfg.MaxConcurrentExtract)

	for i, chunk := range result.Chunks {
		sem <- struct{}{}
		go func(i int, current, previous string) {
			defer func() { <-sem }()
			var records []directory.Record
			var lastErr error
			for attempt := range MaxRetries {
				start := time.Now()
				records, lastErr = w.llm.ExtractProviders(ctx, format, current, previous)
				if lastErr == nil {
					w.stats.Record(time.Since(start).Milliseconds())
					break
				}
				if !IsRetryable(lastErr) {
					break
				}
				w.stats.RecordRetry()
				log.Warn("retryable extraction error", "chunk", i, "attempt", attempt, "error", lastErr)
				select {
				case <-time.After(Backoff(attempt)):
				case <-ctx.Done():
					results <- chunkResult{err: ctx.Err(), idx: i}
					return
				}
			}
			if lastErr != nil {
				w.stats.RecordFailure()
			}
			results <- chunkResult{records: records, err: lastErr, idx: i}
		}(i, chunk, previousChunk(result.Chunks, i))
	}

	// Collect results back into document order; phone propagation depends
	// on org entries preceding their providers.
	perChunk := make([][]directory.Record, len(result.Chunks))
	hadErrors := false
	for range result.Chunks {
		r := <-results
		job.IncrChunksProcessed()
		if r.err != nil {
			log.Error("extraction failed", "chunk", r.idx, "error", r.err)
			job.AddError(fmt.Sprintf("chunk %d: %s", r.idx, r.err))
			hadErrors = true
			continue
		}
		perChunk[r.idx] = r.records
	}

	var extracted []directory.Record
	for _, recs := range perChunk {
		extracted = append(extracted, recs...)
	}

	kept := directory.Filter(extracted)
	directory.PropagateOrgPhones(kept)
	directory.ApplyMetadata(kept, result.Meta)
	job.AddRecordCounts(len(extracted), len(kept))
	job.SetRecords(kept)
	log.Info("extraction complete", "extracted", len(extracted), "kept", len(kept), "errors", hadErrors)

	if len(kept) == 0 && hadErrors {
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	// Phase 4: Export. An explicit ExportPath on the job picks both the
	// destination and the encoding; the default is CSV in the output dir.
	job.SetStatus(StatusExporting, "exporting")
	outPath := job.ExportPath
	if outPath == "" {
		outPath = filepath.Join(w.cfg.OutputDir, doc.Name+".csv")
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			job.AddError(fmt.Sprintf("output dir: %s", err))
			job.SetStatus(StatusFailed, "exporting")
			return
		}
	}
	if err := export.WriteFile(outPath, kept); err != nil {
		log.Error("export failed", "path", outPath, "error", err)
		job.AddError(fmt.Sprintf("export: %s", err))
		job.SetStatus(StatusFailed, "exporting")
		return
	}
	job.SetOutputPath(outPath)
	log.Info("export complete", "path", outPath, "records", len(kept))

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// writeIntermediate saves the converted markdown and the cleaned chunk
// text next to the final export, for debugging the cleaning pass.
func (w *Worker) writeIntermediate(name, raw string, result *cleaner.Result) error {
	dir := filepath.Join(w.cfg.OutputDir, "intermediate")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, name+".converted.md"), []byte(raw), 0o644); err != nil {
		return err
	}
	for i, chunk := range result.Chunks {
		path := filepath.Join(dir, fmt.Sprintf("%s_chunk_%d.md", name, i))
		if err := os.WriteFile(path, []byte(chunk), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func previousChunk(chunks []string, i int) string {
	if i == 0 {
		return ""
	}
	return chunks[i-1]
}
