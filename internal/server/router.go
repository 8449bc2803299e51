package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/pactlens/pactlens/internal/common"
	"github.com/pactlens/pactlens/internal/extract"
)

// NewRouter assembles the HTTP surface.
func NewRouter(svc *Service) http.Handler {
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	mux.Use(svc.requestID)
	mux.Use(svc.logRequests)

	mux.Get("/health", svc.handleHealth)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/contracts", svc.wrap(svc.handleUpload))
		rt.Get("/contracts/{id}", svc.wrap(svc.handleGet))
		rt.Get("/contracts/{id}/export", svc.wrap(svc.handleExport))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps handler errors onto HTTP status codes.
func (s *Service) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var extractErr *extract.ExtractionError
		var appErr *common.AppError
		switch {
		case errors.Is(err, common.ErrNotFound):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, common.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.As(err, &extractErr):
			http.Error(w, extractErr.Error(), http.StatusUnprocessableEntity)
		case errors.As(err, &appErr):
			http.Error(w, appErr.Message, http.StatusInternalServerError)
		default:
			s.logger.Error("http.handler_error",
				"path", req.URL.Path,
				"request_id", common.RequestIDFromContext(req.Context()),
				"error", err,
			)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}
