package vendingapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/vendingkit/pkg/httpserver"
	"github.com/dmitrymomot/vendingkit/pkg/journal"
	"github.com/dmitrymomot/vendingkit/pkg/logger"
	"github.com/dmitrymomot/vendingkit/pkg/vending"
)

// API serves a single machine.
type API struct {
	machine *vending.Machine
	journal journal.Reader
	logger  *slog.Logger
	checks  map[string]httpserver.Check
	timeout time.Duration
}

// Option configures the API.
type Option func(*API)

// WithLogger sets the logger for request and error logging.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithJournal enables GET /journal backed by r.
func WithJournal(r journal.Reader) Option {
	return func(a *API) {
		a.journal = r
	}
}

// WithHealthCheck registers a dependency probe reported by GET /health.
func WithHealthCheck(name string, check httpserver.Check) Option {
	return func(a *API) {
		if check != nil {
			a.checks[name] = check
		}
	}
}

// WithHealthTimeout bounds every health probe.
func WithHealthTimeout(d time.Duration) Option {
	return func(a *API) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// New builds the API for m.
func New(m *vending.Machine, opts ...Option) *API {
	a := &API{
		machine: m,
		logger:  logger.Discard(),
		checks:  make(map[string]httpserver.Check),
		timeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(logger.Component("vendingapi"))
	return a
}

// Router returns the HTTP handler.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(a.logRequests)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.fail(w, r, ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		a.fail(w, r, ErrMethodNotAllowed)
	})

	r.Get("/health", httpserver.Health(a.logger, a.timeout, a.checks))
	r.Get("/state", a.state)
	r.Get("/offer", a.offer)
	r.Get("/inventory", a.inventory)
	r.Get("/journal", a.listJournal)

	r.Route("/transactions", func(r chi.Router) {
		r.Post("/", a.start)
		r.Post("/select", a.selectProduct)
		r.Post("/insert", a.insert)
		r.Post("/checkout", a.checkout)
		r.Post("/accept", a.accept)
		r.Post("/cancel", a.cancel)
	})

	r.Route("/maintenance", func(r chi.Router) {
		r.Post("/", a.startMaintenance)
		r.Delete("/", a.endMaintenance)
		r.Post("/products", a.addProducts)
		r.Post("/cash", a.reloadCash)
		r.Put("/catalogue", a.updateCatalogue)
	})

	return r
}

func (a *API) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.logger.DebugContext(r.Context(), "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("took", time.Since(start)),
		)
	})
}
