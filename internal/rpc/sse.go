package rpc

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleEvents streams one progress topic for one job: GET
// /rpc/events/{topic}?job_id=... where topic is one of the four names
// in §4.10 (watermark-status, watermark-progress, watermark-scan-summary,
// watermark-detail-progress). Grounded directly on the teacher's
// handler.CampaignSSE/TokenSSE.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		http.Error(w, "job_id is required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, unsub := s.Hub.Subscribe(topic + ":" + jobID)
	defer unsub()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, evt.Data)
			flusher.Flush()
		}
	}
}
