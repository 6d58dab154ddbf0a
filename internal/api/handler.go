package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"vitaleco/m/domain"
	"vitaleco/m/internal/ledger"
)

// Options configures a Handler.
type Options struct {
	Logger         *slog.Logger
	AuthEnabled    bool
	Secret         string
	TokenTTL       time.Duration
	LoginRateLimit int
	RequestTimeout time.Duration
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	db       *sqlx.DB
	ledger   *ledger.Service
	logger   *slog.Logger
	opts     Options
	validate *validator.Validate
	metrics  *metrics
}

// New constructs a Handler.
func New(db *sqlx.DB, svc *ledger.Service, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.LoginRateLimit <= 0 {
		opts.LoginRateLimit = 10
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &Handler{
		db:       db,
		ledger:   svc,
		logger:   opts.Logger,
		opts:     opts,
		validate: ledger.NewValidator(),
		metrics:  newMetrics(),
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(h.metrics.middleware)
	r.Use(middleware.Timeout(h.opts.RequestTimeout))

	r.Get("/health", h.health)
	r.Handle("/metrics", h.metrics.handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.With(httprate.LimitByIP(h.opts.LoginRateLimit, time.Minute)).Post("/login", h.login)
	})

	r.Route("/purchase-orders", func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Get("/", h.listOrders)
		r.Post("/", h.createOrder)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getOrder)
			r.Put("/", h.updateOrder)
			r.With(h.requireRole(domain.RoleAdmin)).Delete("/", h.deleteOrder)

			r.Route("/items", func(r chi.Router) {
				r.Get("/", h.listItems)
				r.Post("/", h.addItem)
				r.Get("/{itemID}", h.getItem)
				r.Put("/{itemID}", h.updateItem)
				r.Delete("/{itemID}", h.deleteItem)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Get("/", h.listPayments)
				r.Post("/", h.addPayment)
				r.Get("/{paymentID}", h.getPayment)
				r.Put("/{paymentID}", h.updatePayment)
				r.Delete("/{paymentID}", h.deletePayment)
			})
		})
	})

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.listInventory)
		r.Get("/{product}", h.getInventory)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// Helpers

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeJSON reads exactly one JSON object into dest. Unknown fields and
// trailing data are rejected.
func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if decoder.More() {
		return errors.New("invalid request body: unexpected data after JSON object")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("encode response", slog.Any("error", err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"unable to encode response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"detail": message})
}
