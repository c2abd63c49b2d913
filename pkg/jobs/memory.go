package jobs

import (
	"context"
	"sort"
	"sync"

	cperrors "github.com/meowble/catprint/pkg/errors"
)

// MemoryStore keeps jobs in memory with a bounded history. It is the
// server default; history is lost on restart, which is acceptable for a
// single-user printer.
type MemoryStore struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	order []string
	max   int
}

// DefaultHistory bounds the in-memory job history.
const DefaultHistory = 256

// NewMemoryStore creates an in-memory store keeping at most max jobs.
// max <= 0 selects DefaultHistory.
func NewMemoryStore(max int) *MemoryStore {
	if max <= 0 {
		max = DefaultHistory
	}
	return &MemoryStore{
		jobs: make(map[string]*Job),
		max:  max,
	}
}

// Put inserts or updates a job, evicting the oldest entry when full.
func (s *MemoryStore) Put(ctx context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *job
	if _, exists := s.jobs[job.ID]; !exists {
		s.order = append(s.order, job.ID)
		if len(s.order) > s.max {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.jobs, oldest)
		}
	}
	s.jobs[job.ID] = &copied
	return nil
}

// Get retrieves a job by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, cperrors.New(cperrors.ErrCodeJobNotFound, "job %s not found", id)
	}
	copied := *job
	return &copied, nil
}

// List returns jobs newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		copied := *job
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
