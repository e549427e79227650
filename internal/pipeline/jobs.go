package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/generator"
)

// JobStatus represents the state of a batch generation job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusGenerating JobStatus = "generating"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Job tracks one batch of quote requests.
type Job struct {
	mu sync.Mutex

	ID     string    `json:"job_id"`
	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	requests []generator.Request
	results  []Result
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	Total     int      `json:"total"`
	Processed int      `json:"processed"`
	Succeeded int      `json:"succeeded"`
	Errors    []string `json:"errors"`
}

// Result is the outcome of one request in a batch.
type Result struct {
	Index  int               `json:"index"`
	Report *generator.Report `json:"report,omitempty"`
	Kind   string            `json:"error_kind,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// NewJob returns a queued job for reqs. Job IDs are time-ordered UUIDs.
func NewJob(reqs []generator.Request) *Job {
	now := time.Now()
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &Job{
		ID:        id.String(),
		Status:    StatusQueued,
		Phase:     "queued",
		Progress:  Progress{Total: len(reqs)},
		CreatedAt: now,
		UpdatedAt: now,
		requests:  reqs,
		results:   make([]Result, len(reqs)),
	}
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

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
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

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetResult stores the outcome of request i.
func (j *Job) SetResult(r Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if r.Index < 0 || r.Index >= len(j.results) {
		return
	}
	j.results[r.Index] = r
	j.Progress.Processed++
	if r.Error == "" {
		j.Progress.Succeeded++
	}
	j.UpdatedAt = time.Now()
}

// Requests returns the queued requests.
func (j *Job) Requests() []generator.Request {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.requests
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Progress  Progress  `json:"progress"`
	Results   []Result  `json:"results"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state. Results are listed only
// for requests that have finished.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	results := make([]Result, 0, j.Progress.Processed)
	for i, r := range j.results {
		if r.Report != nil || r.Error != "" {
			r.Index = i
			results = append(results, r)
		}
	}
	return JobSnapshot{
		ID:     j.ID,
		Status: j.Status,
		Phase:  j.Phase,
		Progress: Progress{
			Total:     j.Progress.Total,
			Processed: j.Progress.Processed,
			Succeeded: j.Progress.Succeeded,
			Errors:    errs,
		},
		Results:   results,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}
