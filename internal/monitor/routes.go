package monitor

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the rig state and kick endpoints.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/rigstate/classify", h.Classify)
	r.Route("/kick/{wellID}", func(r chi.Router) {
		r.Post("/score", h.Score)
		r.Get("/baseline", h.GetBaseline)
		r.Delete("/baseline", h.ResetBaseline)
	})
}
