package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"arthavidhi/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// Options configures NewHandler.
type Options struct {
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	// SecureCookies marks the auth cookie Secure. Disable only for plain-HTTP development.
	SecureCookies bool
	// Ping reports backing store health for /api/health. Optional.
	Ping   func(ctx context.Context) error
	Logger *logrus.Logger
}

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	opts   Options
	logger *logrus.Logger
}

const (
	jsonBodyLimit = 1 << 20 // 1 MB
	defaultTTL    = 24 * time.Hour
)

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	h := &Handler{svc: svc, opts: opts, logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(h.logger))
	r.Use(Recoverer(h.logger))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(jsonBodyLimit))
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)
	})

	// ── Protected ─────────────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		// Uploads manage their own, larger body limit.
		r.Post("/api/expenses/{id}/receipt", h.attachReceipt)
		r.Post("/api/profile/logo", h.uploadLogo)

		r.Group(func(r chi.Router) {
			r.Use(RequestBodyLimit(jsonBodyLimit))

			r.Get("/api/me", h.me)
			r.Get("/api/dashboard", h.dashboard)

			r.Route("/api/bills", func(r chi.Router) {
				r.Get("/", h.listBills)
				r.Post("/", h.createBill)
				r.Get("/export.xlsx", h.exportBills)
				r.Get("/next-number", h.nextBillNumber)
				r.Post("/draft", h.draftBill)
				r.Post("/mark-overdue", h.markOverdue)
				r.Get("/{id}", h.getBill)
				r.Put("/{id}", h.updateBill)
				r.Delete("/{id}", h.deleteBill)
				r.Patch("/{id}/status", h.updateBillStatus)
				r.Get("/{id}/pdf", h.billPDF)
			})

			r.Route("/api/quotations", func(r chi.Router) {
				r.Get("/", h.listQuotations)
				r.Post("/", h.createQuotation)
				r.Get("/next-number", h.nextQuotationNumber)
				r.Get("/{id}", h.getQuotation)
				r.Put("/{id}", h.updateQuotation)
				r.Delete("/{id}", h.deleteQuotation)
				r.Get("/{id}/pdf", h.quotationPDF)
			})

			r.Route("/api/purchases", func(r chi.Router) {
				r.Get("/", h.listPurchases)
				r.Post("/", h.createPurchase)
				r.Get("/{id}", h.getPurchase)
				r.Delete("/{id}", h.deletePurchase)
			})

			r.Route("/api/products", func(r chi.Router) {
				r.Get("/", h.listProducts)
				r.Post("/", h.createProduct)
				r.Get("/{id}", h.getProduct)
				r.Put("/{id}", h.updateProduct)
				r.Delete("/{id}", h.deactivateProduct)
			})

			r.Route("/api/expenses", func(r chi.Router) {
				r.Get("/", h.listExpenses)
				r.Post("/", h.createExpense)
				r.Get("/export.xlsx", h.exportExpenses)
				r.Delete("/{id}", h.deleteExpense)
			})

			r.Route("/api/employees", func(r chi.Router) {
				r.Get("/", h.listEmployees)
				r.Post("/", h.createEmployee)
				r.Delete("/{id}", h.deactivateEmployee)
				r.Post("/{id}/attendance", h.markAttendance)
			})
			r.Get("/api/attendance", h.listAttendance)

			r.Get("/api/profile", h.getProfile)
			r.Put("/api/profile", h.updateProfile)
		})
	})

	return r
}

// health reports liveness and, when configured, database reachability.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status   string `json:"status"`
		Database string `json:"database,omitempty"`
	}
	if h.opts.Ping == nil {
		writeJSON(w, http.StatusOK, response{Status: "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.opts.Ping(ctx); err != nil {
		h.logger.WithError(err).Warn("health check: database unreachable")
		writeJSON(w, http.StatusServiceUnavailable, response{Status: "degraded", Database: "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, response{Status: "ok", Database: "ok"})
}

// idParam parses the {id} URL parameter, writing 400 on failure.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// queryBool reads a boolean query parameter; anything unparsable is false.
func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}
