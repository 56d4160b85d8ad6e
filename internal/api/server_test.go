package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/provdir/internal/config"
	"github.com/dgallion1/provdir/internal/directory"
	"github.com/dgallion1/provdir/internal/extract"
	"github.com/dgallion1/provdir/internal/pipeline"
)

const testAPIKey = "test-api-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		ProvdirAPIKey:  testAPIKey,
		WorkerCount:    1,
		MaxQueueSize:   10,
		MaxUploadBytes: 1 << 20,
		JobTTL:         time.Hour,
		OutputDir:      t.TempDir(),
	}
	llm := extract.NewClient("k", "test-model", "")
	// Workers are not started: submitted jobs stay queued, which is all
	// these handler tests need.
	orch := pipeline.NewOrchestrator(cfg, llm, slog.New(slog.DiscardHandler))
	return NewServer(orch, llm, slog.New(slog.DiscardHandler), cfg)
}

func multipartUpload(t *testing.T, field, filename, content string, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatal(err)
	}
	for k, v := range extra {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestHealthEndpointIsPublic(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/formats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no auth: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/formats", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/formats", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid key: status = %d", rec.Code)
	}
}

func TestExtractSubmitAndStatus(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartUpload(t, "file", "medicare_ca_la_2024.md", "Smith, John MD\n123 Main St", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		JobID  string `json:"job_id"`
		Format string `json:"format"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.JobID == "" {
		t.Fatal("expected a job id")
	}
	if resp.Format != "ca_la" {
		t.Errorf("format = %q, want detected ca_la", resp.Format)
	}
	if resp.Status != string(pipeline.StatusQueued) {
		t.Errorf("status = %q", resp.Status)
	}

	// Poll status.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/extract/"+resp.JobID+"/status", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d", rec.Code)
	}

	// Records are not available while the job is queued.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/extract/"+resp.JobID+"/records", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("records while queued = %d", rec.Code)
	}
}

func TestExtractRejectsUnknownFormat(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartUpload(t, "file", "roster.md", "text", map[string]string{"format": "tx_travis"})
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExtractRejectsUndetectableFormat(t *testing.T) {
	s := newTestServer(t)

	// No format field and nothing in the filename to detect.
	body, contentType := multipartUpload(t, "file", "roster.md", "text", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExtractRejectsUnsupportedExtension(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartUpload(t, "file", "data_ca_la.csv", "a,b", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestStatusUnknownJob(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/extract/no-such-job/status", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestBatchExtract(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"medicare_ca_la_a.md", "medicare_il_cook_b.md", "bad.csv"} {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		io.WriteString(fw, "content")
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/extract/batch", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Jobs []map[string]any `json:"jobs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Jobs) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Jobs))
	}
	if _, ok := resp.Jobs[0]["job_id"]; !ok {
		t.Errorf("first file should be accepted: %v", resp.Jobs[0])
	}
	if _, ok := resp.Jobs[2]["error"]; !ok {
		t.Errorf("csv file should be rejected: %v", resp.Jobs[2])
	}
}

func TestLLMStatsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats/llm", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Model string `json:"model"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Model != "test-model" {
		t.Errorf("model = %q", resp.Model)
	}
}

func TestExtractRecordsCSV(t *testing.T) {
	s := newTestServer(t)

	buf, ctype := multipartUpload(t, "file", "medicare_ca_la_2024.md", "# Directory", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/extract", buf)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("upload: status = %d body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	// Workers are not running, so finish the job by hand.
	job := s.orchestrator.GetJob(resp.JobID)
	if job == nil {
		t.Fatal("job not found in store")
	}
	job.SetRecords([]directory.Record{{FullName: "Smith, John MD", Phone: "(213) 555-0100"}})
	job.SetStatus(pipeline.StatusCompleted, "done")

	req = httptest.NewRequest(http.MethodGet, "/api/extract/"+resp.JobID+"/records?format=csv", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("records: status = %d body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d, want header plus one row", len(lines))
	}
	if !strings.Contains(lines[1], "Smith, John MD") {
		t.Errorf("data row = %q", lines[1])
	}
}
