package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/provdir/internal/cleaner"
	"github.com/dgallion1/provdir/internal/config"
	"github.com/dgallion1/provdir/internal/extract"
)

const workerTestDoc = `## Page 1
MEDICAL GROUP: Acme Medical Group
Smith, John MD
PCP# 12345
1234 Main St
Los Angeles, CA 90001
(213) 555-0100
---
`

// newExtractStub serves a fixed chat-completions reply with one provider.
func newExtractStub(t *testing.T) *httptest.Server {
	t.Helper()
	content := `{"providers":[{"full_name":"Smith, John MD","phone":"(213) 555-0100"}]}`
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
	}))
}

func newTestWorker(t *testing.T, srv *httptest.Server, cfg config.Config) *Worker {
	t.Helper()
	llm := extract.NewClient("test-key", "test-model", srv.URL)
	t.Cleanup(llm.Close)
	store := NewJobStore(time.Hour)
	return NewWorker(llm, extract.NewLLMStats(time.Hour), store, slog.New(slog.DiscardHandler), cfg)
}

func newMarkdownJob(id string) *Job {
	now := time.Now()
	job := &Job{
		ID:        id,
		DocID:     id,
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  "medicare_ca_la_2024.md",
		Format:    cleaner.FormatCALA,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData([]byte(workerTestDoc))
	return job
}

func TestWorker_ProcessExportsCSVByDefault(t *testing.T) {
	srv := newExtractStub(t)
	defer srv.Close()

	outDir := t.TempDir()
	w := newTestWorker(t, srv, config.Config{
		OutputDir:            outDir,
		MaxConcurrentExtract: 2,
	})

	job := newMarkdownJob("job-default")
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status = %q, errors = %v", snap.Status, snap.Progress.Errors)
	}
	want := filepath.Join(outDir, "medicare_ca_la_2024.csv")
	if snap.OutputPath != want {
		t.Errorf("output path = %q, want %q", snap.OutputPath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("default export missing: %v", err)
	}
}

func TestWorker_ProcessHonorsExportPath(t *testing.T) {
	srv := newExtractStub(t)
	defer srv.Close()

	outDir := t.TempDir()
	target := filepath.Join(t.TempDir(), "providers.json")
	w := newTestWorker(t, srv, config.Config{
		OutputDir:            outDir,
		MaxConcurrentExtract: 2,
	})

	job := newMarkdownJob("job-override")
	job.ExportPath = target
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status = %q, errors = %v", snap.Status, snap.Progress.Errors)
	}
	if snap.OutputPath != target {
		t.Errorf("output path = %q, want %q", snap.OutputPath, target)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("export missing: %v", err)
	}

	// The override replaces the default export, it does not add to it.
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir not empty: %v", entries)
	}
}
