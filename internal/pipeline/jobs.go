package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/provdir/internal/cleaner"
	"github.com/dgallion1/provdir/internal/directory"
)

// JobStatus represents the state of an extraction job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusCleaning   JobStatus = "cleaning"
	StatusExtracting JobStatus = "extracting"
	StatusExporting  JobStatus = "exporting"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
	StatusDupSkipped JobStatus = "duplicate_skipped"
)

// Job tracks the state of a single directory extraction.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus      `json:"status"`
	Phase    string         `json:"phase"`
	Filename string         `json:"filename"`
	Format   cleaner.Format `json:"format"`

	// ExportPath overrides the default export destination when set
	// before processing. The extension picks the encoding.
	ExportPath string `json:"-"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	OutputPath  string    `json:"output_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	records  []directory.Record
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalChunks      int      `json:"total_chunks"`
	ChunksProcessed  int      `json:"chunks_processed"`
	RecordsExtracted int      `json:"records_extracted"`
	RecordsKept      int      `json:"records_kept"`
	Errors           []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// FindCompletedByHash returns a finished job with the same content hash,
// used to skip re-extracting a document that was already processed.
func (s *JobStore) FindCompletedByHash(hash, excludeID string) *Job {
	if hash == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.ID == excludeID {
			continue
		}
		if job.ContentHash == hash && (job.Status == StatusCompleted || job.Status == StatusPartial) {
			return job
		}
	}
	return nil
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetContentHash records the parsed-content hash.
func (j *Job) SetContentHash(hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = hash
	j.UpdatedAt = time.Now()
}

// SetOutputPath records where the export was written.
func (j *Job) SetOutputPath(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.OutputPath = path
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrChunksProcessed atomically increments chunks processed.
func (j *Job) IncrChunksProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksProcessed++
	j.UpdatedAt = time.Now()
}

// AddRecordCounts records extracted/kept record counts.
func (j *Job) AddRecordCounts(extracted, kept int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.RecordsExtracted += extracted
	j.Progress.RecordsKept += kept
	j.UpdatedAt = time.Now()
}

// SetTotalChunks records total chunk count.
func (j *Job) SetTotalChunks(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalChunks = n
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetRecords stores the final record list.
func (j *Job) SetRecords(records []directory.Record) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = records
}

// Records returns a copy of the final record list.
func (j *Job) Records() []directory.Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]directory.Record, len(j.records))
	copy(out, j.records)
	return out
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string         `json:"job_id"`
	DocID      string         `json:"doc_id"`
	Status     JobStatus      `json:"status"`
	Phase      string         `json:"phase"`
	Filename   string         `json:"filename"`
	Format     cleaner.Format `json:"format"`
	OutputPath string         `json:"output_path,omitempty"`
	Progress   Progress       `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:         j.ID,
		DocID:      j.DocID,
		Status:     j.Status,
		Phase:      j.Phase,
		Filename:   j.Filename,
		Format:     j.Format,
		OutputPath: j.OutputPath,
		Progress: Progress{
			TotalChunks:      j.Progress.TotalChunks,
			ChunksProcessed:  j.Progress.ChunksProcessed,
			RecordsExtracted: j.Progress.RecordsExtracted,
			RecordsKept:      j.Progress.RecordsKept,
			Errors:           errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
