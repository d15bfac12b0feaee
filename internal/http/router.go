package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// HealthFunc reports whether the backing store is reachable.
type HealthFunc func(ctx context.Context) error

type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

type Handlers struct {
	Guard   *Guard
	Auth    *AuthHandler
	Users   *UserHandler
	Catalog *CatalogHandler
	Cart    *CartHandler
	Orders  *OrdersHandler
	Health  HealthFunc
}

func NewRouter(cfg RouterConfig, h Handlers, lg *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(lg))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Khamar to Kitchen Server Running"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := h.Health(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/jwt", h.Auth.IssueToken)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.Users.Register)
		r.Get("/", h.Users.List)
	})

	r.Get("/shop", h.Catalog.ListShops)
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.Catalog.ListProducts)
		r.Get("/{id}", h.Catalog.GetProduct)
	})

	r.Route("/cartProducts", func(r chi.Router) {
		r.Use(h.Guard.RequireAuth)
		r.Post("/", h.Cart.AddItem)
		r.Get("/", h.Cart.GetCart)
		r.Delete("/", h.Cart.RemoveItems)
		r.Delete("/{id}", h.Cart.RemoveItem)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.Orders.ListOrders)
		r.Group(func(r chi.Router) {
			r.Use(h.Guard.RequireAuth)
			r.Post("/", h.Orders.CreateOrder)
			r.Get("/{userId}", h.Orders.ListUserOrders)
			r.Get("/id/{orderId}", h.Orders.GetOrder)
		})
	})

	return otelhttp.NewHandler(r, "khamar-api")
}
