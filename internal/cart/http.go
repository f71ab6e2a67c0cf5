package cart

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"GroceryStore/internal/catalog"
	"GroceryStore/pkg/kit"
)

type Server struct {
	Store *Store
	Log   *zap.Logger

	// Checkouts is incremented on every checkout when set.
	Checkouts prometheus.Counter
}

type addReq struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

type removeReq struct {
	ProductID string `json:"productId"`
}

// Routes mounts the cart API. mutate wraps the routes that change a cart.
func (s *Server) Routes(mutate func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", s.list)
		r.Group(func(mr chi.Router) {
			if mutate != nil {
				mr.Use(mutate)
			}
			mr.Post("/add", s.add)
			mr.Post("/remove", s.remove)
			mr.Post("/checkout", s.checkout)
		})
	})

	return r
}

func (s *Server) cart(r *http.Request) *Cart {
	return s.Store.Cart(r.Header.Get(kit.CartIDHeader))
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.cart(r).List())
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var req addReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	entries, err := s.cart(r).Add(req.Product, req.Quantity)
	if err != nil {
		if errors.Is(err, ErrInvalidProduct) || errors.Is(err, ErrInvalidQuantity) {
			kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
		s.logger().Error("add to cart failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, entries)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	var req removeReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.cart(r).Remove(req.ProductID))
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	c := s.cart(r)
	items := c.Len()
	res := c.Checkout()

	if s.Checkouts != nil {
		s.Checkouts.Inc()
	}
	s.logger().Info("checkout", zap.String("cart_id", r.Header.Get(kit.CartIDHeader)), zap.Int("entries", items))
	kit.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
