// Package jobs provides print job tracking for the catprint server.
//
// This package defines the job lifecycle and a Store interface with
// implementations for different backends:
//   - memory: in-memory storage, the server default
//   - mongo: MongoDB-backed archive for deployments that keep history
//
// # Lifecycle
//
// A job is created as StatusQueued when a print request is accepted,
// moves to StatusPrinting when a worker picks it up, and ends as
// StatusDone or StatusFailed. Jobs are immutable from the client's view;
// only the worker transitions status.
//
// # Usage
//
// Create a store and record a job:
//
//	store := jobs.NewMemoryStore(256)
//	job := jobs.New(opts)
//	_ = store.Put(ctx, job)
//
//	// Worker side
//	job.Status = jobs.StatusPrinting
//	_ = store.Put(ctx, job)
package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meowble/catprint/pkg/pipeline"
)

// Status is the lifecycle state of a print job.
type Status string

// Job lifecycle states.
const (
	StatusQueued   Status = "queued"
	StatusPrinting Status = "printing"
	StatusDone     Status = "done"
	StatusFailed   Status = "failed"
)

// Job records one print request and its outcome.
type Job struct {
	ID      string           `json:"id" bson:"_id"`
	Status  Status           `json:"status" bson:"status"`
	Options pipeline.Options `json:"options" bson:"options"`

	// Device is the identifier the job printed to, filled by the worker.
	Device string `json:"device,omitempty" bson:"device,omitempty"`

	// Error holds the failure message for StatusFailed jobs.
	Error string `json:"error,omitempty" bson:"error,omitempty"`

	// Stats is populated once the pipeline has run.
	Stats pipeline.Stats `json:"stats,omitempty" bson:"stats,omitempty"`

	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	FinishedAt time.Time `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
}

// Done reports whether the job reached a terminal state.
func (j *Job) Done() bool {
	return j.Status == StatusDone || j.Status == StatusFailed
}

// New creates a queued job with a fresh ID.
func New(opts pipeline.Options) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Options:   opts,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for job storage backends.
type Store interface {
	// Put inserts or updates a job.
	Put(ctx context.Context, job *Job) error

	// Get retrieves a job by ID. A missing job yields a JOB_NOT_FOUND
	// error.
	Get(ctx context.Context, id string) (*Job, error)

	// List returns jobs ordered newest first, at most limit entries.
	// limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*Job, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
