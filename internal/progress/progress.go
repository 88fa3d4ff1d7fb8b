// Package progress is the structured event sink (C10): it turns job
// state transitions, scan summaries, and per-file progress into JSON
// payloads published on the teacher's unmodified internal/sse Hub, one
// topic per event channel, rate-limited so a fast worker pool can't
// flood slow subscribers.
package progress

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/Wxl-c137/blindmarker/internal/model"
	"github.com/Wxl-c137/blindmarker/internal/sse"
)

// Status codes for the status event (§4.10).
const (
	StatusIdle         = "idle"
	StatusInitializing = "initializing"
	StatusExtracting   = "extracting"
	StatusScanning     = "scanning"
	StatusProcessing   = "processing"
	StatusPackaging    = "packaging"
	StatusComplete     = "complete"
	StatusError        = "error"
)

// Event topics, matching §6's RPC event surface.
const (
	TopicStatus       = "watermark-status"
	TopicProgress     = "watermark-progress"
	TopicScanSummary  = "watermark-scan-summary"
	TopicDetailProgress = "watermark-detail-progress"
)

type statusPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type scanSummaryPayload struct {
	JSONCount  int `json:"json_count"`
	VAJCount   int `json:"vaj_count"`
	VMICount   int `json:"vmi_count"`
	ImageCount int `json:"image_count"`
}

type detailProgressPayload struct {
	BatchCurrent int    `json:"batch_current"`
	BatchTotal   int    `json:"batch_total"`
	FileType     string `json:"file_type"`
	TypeCurrent  int    `json:"type_current"`
	TypeTotal    int    `json:"type_total"`
	Filename     string `json:"filename"`
}

type imageProgressPayload struct {
	CurrentFile int    `json:"current_file"`
	TotalFiles  int    `json:"total_files"`
	Filename    string `json:"filename"`
}

// Sink emits job progress for one topic namespace (one job's events, or
// a shared job-agnostic namespace, depending on the caller). It is
// goroutine-safe: workers publish detail/image progress concurrently
// (§5 "the progress sink is the only mutable shared resource across
// workers; it is guarded so that emissions are atomic").
type Sink struct {
	hub   *sse.Hub
	jobID string

	detailLimiter *rate.Limiter
	imageLimiter  *rate.Limiter

	imageCurrent atomic.Int64
}

// New builds a Sink publishing onto hub under topics scoped to jobID,
// throttling the high-frequency per-file channels to at most 30
// events/sec each — the coalescing allowance of §4.10/§5: counters stay
// monotonic even when an emission is skipped, since callers only ever
// increment the atomic counters and publish their latest value.
func New(hub *sse.Hub, jobID string) *Sink {
	return &Sink{
		hub:           hub,
		jobID:         jobID,
		detailLimiter: rate.NewLimiter(30, 5),
		imageLimiter:  rate.NewLimiter(30, 5),
	}
}

func (s *Sink) topic(base string) string {
	return base + ":" + s.jobID
}

func (s *Sink) publish(topic, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("progress: marshal event", "topic", topic, "error", err)
		return
	}
	s.hub.Publish(s.topic(topic), sse.Event{Type: eventType, Data: string(data)})
}

// Status emits a job state transition. Never throttled: status changes
// are rare and each one matters (§4.10 state machine).
func (s *Sink) Status(code, message string) {
	s.publish(TopicStatus, "status", statusPayload{Code: code, Message: message})
}

// ScanSummary emits the once-per-job post-scan counts. Never throttled
// and must be called before any DetailProgress/ImageProgress (§5
// ordering guarantee (a)).
func (s *Sink) ScanSummary(summary model.ScanSummary) {
	s.publish(TopicScanSummary, "scan-summary", scanSummaryPayload{
		JSONCount:  summary.JSONCount,
		VAJCount:   summary.VAJCount,
		VMICount:   summary.VMICount,
		ImageCount: summary.ImageCount,
	})
}

// DetailProgress emits one file's start-of-processing event, coalescing
// allowed under load: batchCurrent/typeCurrent are supplied by the
// caller as already-monotonic counters, so a dropped emission never
// regresses what a subscriber last saw.
func (s *Sink) DetailProgress(batchCurrent, batchTotal int, fileType string, typeCurrent, typeTotal int, filename string) {
	if !s.detailLimiter.Allow() {
		return
	}
	s.publish(TopicDetailProgress, "detail-progress", detailProgressPayload{
		BatchCurrent: batchCurrent,
		BatchTotal:   batchTotal,
		FileType:     fileType,
		TypeCurrent:  typeCurrent,
		TypeTotal:    typeTotal,
		Filename:     filename,
	})
}

// ImageProgress emits one image task's progress, monotonic via an
// internal atomic counter so concurrent image workers never report a
// current count lower than a previously published one.
func (s *Sink) ImageProgress(totalFiles int, filename string) {
	current := s.imageCurrent.Add(1)
	if !s.imageLimiter.Allow() {
		return
	}
	s.publish(TopicProgress, "image-progress", imageProgressPayload{
		CurrentFile: int(current),
		TotalFiles:  totalFiles,
		Filename:    filename,
	})
}
