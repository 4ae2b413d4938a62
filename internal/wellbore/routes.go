package wellbore

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the trajectory endpoints under /trajectory.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/trajectory", func(r chi.Router) {
		r.Get("/", h.ListWells)
		r.Route("/{wellID}", func(r chi.Router) {
			r.Delete("/", h.DeleteWell)
			r.Get("/stations", h.ListStations)
			r.Post("/stations", h.AddStations)
			r.Put("/stations", h.UpdateStation)
			r.Post("/recalculate", h.Recalculate)
			r.Put("/vertical-section", h.SetVerticalSection)
			r.Get("/interpolate", h.Interpolate)
		})
	})
}
