package rpc

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes wires the four §6 commands and the SSE stream onto a chi
// router, middleware chosen the same way as the teacher's
// handler.Routes (no CSRF or session cookies here: every endpoint is a
// stateless JSON/SSE command, not a browser-facing form).
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/rpc", func(r chi.Router) {
		r.Post("/process_archive", s.handleProcessArchive)
		r.Post("/scan_all_watermarks_in_archive", s.handleScanAllWatermarks)
		r.Post("/list_images_in_archive", s.handleListImages)
		r.Get("/get_cpu_count", s.handleCPUCount)
		r.Get("/events/{topic}", s.handleEvents)
	})

	return r
}
