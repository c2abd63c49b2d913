package server

import (
	"context"
	"time"

	"github.com/meowble/catprint/pkg/jobs"
)

// worker drains the job queue one job at a time. The printer is a
// physical serial device, so there is exactly one worker.
func (s *Server) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-s.queue:
			s.process(ctx, id)
		}
	}
}

func (s *Server) process(ctx context.Context, id string) {
	job, err := s.store.Get(ctx, id)
	if err != nil {
		s.logger.Error("load queued job", "job", id, "error", err)
		return
	}

	job.Status = jobs.StatusPrinting
	if err := s.store.Put(ctx, job); err != nil {
		s.logger.Error("update job", "job", id, "error", err)
	}

	s.runnerMu.Lock()
	result, err := s.runner.Execute(ctx, job.Options)
	s.runnerMu.Unlock()
	if err == nil {
		job.Stats = result.Stats
		err = s.transmit(ctx, job.Device, result.Commands)
	}

	job.FinishedAt = time.Now().UTC()
	if err != nil {
		job.Status = jobs.StatusFailed
		job.Error = err.Error()
		s.logger.Error("print job failed", "job", id, "error", err)
	} else {
		job.Status = jobs.StatusDone
		s.logger.Info("print job done", "job", id,
			"bytes", result.Stats.CommandSize,
			"raster", result.Stats.Height)
	}

	if err := s.store.Put(ctx, job); err != nil {
		s.logger.Error("update job", "job", id, "error", err)
	}
}
