// Package server implements the catprint HTTP print server.
//
// The server accepts print requests over JSON, queues them as jobs, and
// prints them sequentially through a single worker. The printer can only
// burn one page at a time, so the worker serializes access to the device.
//
// Endpoints:
//
//	GET  /healthz       liveness probe
//	POST /print         queue a print job (202 + job)
//	POST /preview       render without printing, returns a PNG
//	GET  /jobs          list recent jobs, newest first
//	GET  /jobs/{id}     fetch one job
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/meowble/catprint/pkg/jobs"
	"github.com/meowble/catprint/pkg/pipeline"
)

// TransmitFunc sends an encoded command stream to a device. The server
// never talks BLE directly; the caller injects the transport so tests and
// dry runs can stub it.
type TransmitFunc func(ctx context.Context, device string, data []byte) error

// Options configure the server.
type Options struct {
	// Runner executes the print pipeline.
	Runner *pipeline.Runner

	// Store tracks job state. Nil selects an in-memory store.
	Store jobs.Store

	// Transmit sends commands to the printer.
	Transmit TransmitFunc

	// Device is the default printer identifier for queued jobs.
	Device string

	// QueueSize bounds pending jobs; further requests are rejected.
	QueueSize int

	Logger *log.Logger
}

// Server is the HTTP print server.
type Server struct {
	// runnerMu serializes runner access: the Runner memoizes parsed
	// fonts and is not safe for concurrent use.
	runnerMu sync.Mutex
	runner   *pipeline.Runner

	store    jobs.Store
	transmit TransmitFunc
	device   string
	logger   *log.Logger

	queue  chan string
	router chi.Router
}

// DefaultQueueSize bounds the pending job queue.
const DefaultQueueSize = 32

// New creates a server. Options.Runner and Options.Transmit are required.
func New(opts Options) *Server {
	if opts.Store == nil {
		opts.Store = jobs.NewMemoryStore(0)
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	s := &Server{
		runner:   opts.Runner,
		store:    opts.Store,
		transmit: opts.Transmit,
		device:   opts.Device,
		logger:   opts.Logger,
		queue:    make(chan string, opts.QueueSize),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Post("/print", s.handlePrint)
	r.Post("/preview", s.handlePreview)
	r.Get("/jobs", s.handleListJobs)
	r.Get("/jobs/{id}", s.handleGetJob)

	s.router = r
	return s
}

// Handler returns the HTTP handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, running the print worker
// alongside the listener.
func (s *Server) Run(ctx context.Context, addr string) error {
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		s.worker(ctx)
	}()

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("print server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		<-workerDone
		return err
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		return err
	}
}
