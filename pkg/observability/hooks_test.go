package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	renders int
	encodes int
}

func (h *recordingPipelineHooks) OnRenderStart(ctx context.Context, lineCount, fontSize int) {
	h.renders++
}

func (h *recordingPipelineHooks) OnEncodeComplete(ctx context.Context, bytes int, d time.Duration, err error) {
	h.encodes++
}

func TestSetPipelineHooks(t *testing.T) {
	defer Reset()

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)

	Pipeline().OnRenderStart(context.Background(), 2, 10)
	Pipeline().OnEncodeComplete(context.Background(), 128, time.Millisecond, nil)

	if rec.renders != 1 {
		t.Errorf("renders = %d, want 1", rec.renders)
	}
	if rec.encodes != 1 {
		t.Errorf("encodes = %d, want 1", rec.encodes)
	}
}

func TestSetNilHooksKeepsDefaults(t *testing.T) {
	defer Reset()

	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetTransportHooks(nil)

	// Must not panic with no-op defaults in place.
	Pipeline().OnRenderComplete(context.Background(), 384, 40, time.Millisecond, nil)
	Cache().OnCacheMiss(context.Background(), "raster")
	Transport().OnChunk(context.Background(), "GB02", 20, 200)
}

func TestReset(t *testing.T) {
	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)
	Reset()

	Pipeline().OnRenderStart(context.Background(), 1, 10)
	if rec.renders != 0 {
		t.Error("Reset should restore no-op hooks")
	}
}
