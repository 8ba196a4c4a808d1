package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobState tracks a web batch through its lifecycle
type JobState string

const (
	StateQueued  JobState = "queued"
	StateRunning JobState = "running"
	StateDone    JobState = "done"
	StateError   JobState = "error"
)

// TrackedJob is the server-side view of one upload batch
type TrackedJob struct {
	ID        string
	State     JobState
	Total     int
	Completed int
	Converted int
	Skipped   int
	Failed    int
	Error     string
	Archive   []byte
	Format    string
	CreatedAt time.Time
}

// Registry holds in-flight and finished web batches. It is constructed
// explicitly and injected into the handler; there is no package-level job
// table.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*TrackedJob
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*TrackedJob)}
}

// Create registers a new queued batch and returns its ID
func (r *Registry) Create(total int, format string) string {
	id := uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[id] = &TrackedJob{
		ID:        id,
		State:     StateQueued,
		Total:     total,
		Format:    format,
		CreatedAt: time.Now(),
	}
	return id
}

// Get returns a snapshot of the tracked job
func (r *Registry) Get(id string) (TrackedJob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return TrackedJob{}, false
	}
	return *job, true
}

// Update applies fn to the tracked job under the registry lock
func (r *Registry) Update(id string, fn func(*TrackedJob)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job, ok := r.jobs[id]; ok {
		fn(job)
	}
}
