// Package httpapi exposes the controllers over a JSON HTTP API and
// serves realtime websocket sessions.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/metrics"
	orderapp "github.com/dwikikusuma/storefront/internal/order/app"
	"github.com/dwikikusuma/storefront/internal/realtime"
	listapp "github.com/dwikikusuma/storefront/internal/shoppinglist/app"
)

type Deps struct {
	Catalog  *catalogapp.Controller
	Cart     *cartapp.Controller
	Lists    *listapp.Controller
	Scanner  *listapp.Scanner
	Checkout *checkoutapp.Service
	Orders   *orderapp.Service
	Hub      *realtime.Hub

	// Ready backs /readyz. Nil means always ready.
	Ready func(ctx context.Context) error
}

type Options struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

type API struct {
	Deps
	log *slog.Logger
}

func NewRouter(deps Deps, opts Options, log *slog.Logger) http.Handler {
	a := &API{Deps: deps, log: log.With(slog.String("component", "httpapi"))}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(a.observe)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", a.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimitRequests > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimitRequests, opts.RateLimitWindow))
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/", a.listProducts)
			r.Get("/categories", a.categories)
			r.Get("/barcode/{code}", a.productByBarcode)
			r.Get("/{productID}", a.productByID)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/cart", a.getCart)
			r.Delete("/cart", a.clearCart)
			r.Post("/cart/items", a.addToCart)
			r.Put("/cart/items/{productID}", a.updateCartItem)
			r.Delete("/cart/items/{productID}", a.removeFromCart)

			r.Get("/checkout/quote", a.quote)
			r.Post("/checkout", a.placeOrder)
			r.Get("/orders", a.orderHistory)

			r.Get("/lists", a.getLists)
			r.Post("/lists", a.createList)

			r.Get("/ws", a.websocket)
		})

		r.Route("/lists/{listID}", func(r chi.Router) {
			r.Patch("/status", a.updateListStatus)
			r.Delete("/", a.deleteList)
			r.Get("/items", a.getListItems)
			r.Post("/items", a.addListItem)
			r.Post("/scan", a.scan)
		})

		r.Patch("/list-items/{itemID}", a.updateListItem)
		r.Delete("/list-items/{itemID}", a.removeListItem)
	})

	return r
}

func (a *API) ready(w http.ResponseWriter, r *http.Request) {
	if a.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Ready(ctx); err != nil {
			a.log.Warn("readiness check failed", slog.Any("err", err))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

// observe counts requests by route pattern and logs slow or failed ones.
func (a *API) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()

		a.log.Debug("http request",
			slog.String("method", r.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", chimiddleware.GetReqID(r.Context())))
	})
}
