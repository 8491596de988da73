package httphandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *StatusHandler) chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(rr chi.Router) {
		rr.Get("/artifacts", h.ListArtifacts)
		rr.Post("/artifacts/{id}/verify", h.VerifyArtifact)
		rr.Get("/runs", h.ListRuns)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ok(w, "ok", struct{}{})
	})
	return r
}

func pathValue(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
