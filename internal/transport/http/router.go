package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"quizshow-scoreboard/internal/app"
	"quizshow-scoreboard/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the control surface, the board read endpoint and metrics.
func NewRouter(service *app.ControlService, gatherer prometheus.Gatherer, log logrus.FieldLogger) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID, middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	router.Get("/ws", NewWSHandler(service, log).ServeWS)
	router.Get("/shows/{showID}/board", boardHandler(service))
	return router
}

func boardHandler(service *app.ControlService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := service.Board(r.Context(), chi.URLParam(r, "showID"))
		if errors.Is(err, domain.ErrShowNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(board)
	}
}
