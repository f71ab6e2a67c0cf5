package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"GroceryStore/pkg/kit"
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			s.logger().Warn("readyz failed", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", s.list)
		r.Get("/{id}", s.get)
	})

	return r
}

// list answers ?category= with an exact match and ?sort= with a sort spec.
// There is no pagination.
func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := Filter{}
	if c := q.Get("category"); c != "" {
		filter["category"] = c
	}
	sort := SortSpec(q.Get("sort"))

	products, err := s.Store.Find(r.Context(), filter, sort)
	if err != nil {
		s.logger().Error("list products failed", zap.Error(err),
			zap.String("category", filter["category"]), zap.String("sort", string(sort)))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := Get(r.Context(), s.Store, id)
	if err != nil {
		s.logger().Error("get product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
