package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qna/internal/qna/service"
	id "qna/pkg/domain"
)

// opsRouter exposes the operational surface: liveness, Prometheus metrics
// and a read-only view of a user's delete histories for support tooling.
// The content API itself belongs to the embedding service, not here.
func opsRouter(svc *service.Service, health func(ctx context.Context) error) http.Handler {
	r := chi.NewRouter()

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if health != nil {
			if err := health(req.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/ops/users/{id}/delete-histories", func(w http.ResponseWriter, req *http.Request) {
		userID, err := id.ParseUserID(chi.URLParam(req, "id"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		histories, err := svc.ListUserDeleteHistories(req.Context(), userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(histories)
	})

	return r
}
