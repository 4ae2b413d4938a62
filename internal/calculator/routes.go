package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the formula endpoints onto the given router under
// the /calculator prefix.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/mse", h.MSE)
		r.Post("/ecd", h.ECD)
		r.Post("/dls", h.DLS)
		r.Post("/swab-surge", h.SwabSurge)
		r.Post("/kick-tolerance", h.KickTolerance)
		r.Post("/torque-drag", h.TorqueDrag)
		r.Post("/bit-hydraulics", h.BitHydraulics)
		r.Post("/batch", h.Batch)
	})
}
