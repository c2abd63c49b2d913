package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	cperrors "github.com/meowble/catprint/pkg/errors"
	"github.com/meowble/catprint/pkg/jobs"
	"github.com/meowble/catprint/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// printRequest is the POST /print and /preview body. Device overrides the
// server's default printer for this job only.
type printRequest struct {
	pipeline.Options
	Device string `json:"device,omitempty"`
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	req, err := decodePrintRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	device := req.Device
	if device == "" {
		device = s.device
	}

	job := jobs.New(req.Options)
	job.Device = device
	if err := s.store.Put(r.Context(), job); err != nil {
		respondError(w, err)
		return
	}

	select {
	case s.queue <- job.ID:
	default:
		job.Status = jobs.StatusFailed
		job.Error = "print queue full"
		_ = s.store.Put(r.Context(), job)
		respondError(w, cperrors.New(cperrors.ErrCodeUnsupported, "print queue full, retry later"))
		return
	}

	s.logger.Info("queued print job", "job", job.ID, "device", device)
	respondJSON(w, http.StatusAccepted, job)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, err := decodePrintRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	s.runnerMu.Lock()
	raster, err := s.runner.Render(r.Context(), req.Options)
	s.runnerMu.Unlock()
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if raster.Overconstrained {
		w.Header().Set("X-Catprint-Overconstrained", "true")
	}
	if err := png.Encode(w, raster.Bitmap.Image()); err != nil {
		s.logger.Error("encode preview", "error", err)
	}
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, cperrors.New(cperrors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}

	list, err := s.store.List(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"jobs": list})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, job)
}

func decodePrintRequest(r *http.Request) (*printRequest, error) {
	var req printRequest
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, cperrors.Wrap(cperrors.ErrCodeInvalidInput, err, "decode request body")
	}
	if err := req.Options.ValidateAndSetDefaults(); err != nil {
		return nil, cperrors.Wrap(cperrors.ErrCodeInvalidInput, err, "invalid options")
	}
	return &req, nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps structured error codes to HTTP status codes.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch cperrors.GetCode(err) {
	case cperrors.ErrCodeInvalidInput, cperrors.ErrCodeInvalidAlign,
		cperrors.ErrCodeInvalidDither, cperrors.ErrCodeInvalidDevice:
		status = http.StatusBadRequest
	case cperrors.ErrCodeNotFound, cperrors.ErrCodeJobNotFound, cperrors.ErrCodeDeviceNotFound:
		status = http.StatusNotFound
	case cperrors.ErrCodeFontLoad, cperrors.ErrCodeOverconstrained:
		status = http.StatusUnprocessableEntity
	case cperrors.ErrCodeUnsupported:
		status = http.StatusServiceUnavailable
	case cperrors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}

	respondJSON(w, status, map[string]any{
		"error": cperrors.UserMessage(err),
		"code":  string(cperrors.GetCode(err)),
	})
}
