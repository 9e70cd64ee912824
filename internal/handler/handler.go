package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"fsanano/glacierfarm/internal/apperr"
	"fsanano/glacierfarm/internal/metrics"
	"fsanano/glacierfarm/internal/service"
)

const (
	apiName    = "GlacierFarm API"
	apiVersion = "1.0.0"

	requestTimeout = 30 * time.Second
)

// Options tunes the HTTP surface. Zero values disable the optional parts.
type Options struct {
	AllowedOrigins []string
	AuthRateLimit  rate.Limit
	AuthRateBurst  int
	Metrics        *metrics.Metrics
}

type Handler struct {
	router *chi.Mux
	log    *logrus.Logger

	auth    *service.AuthService
	catalog *service.CatalogService
	orders  *service.OrderService
	storage *service.StorageService

	authLimiter *RateLimiter
	metrics     *metrics.Metrics
}

func NewHandler(
	auth *service.AuthService,
	catalog *service.CatalogService,
	orders *service.OrderService,
	storage *service.StorageService,
	log *logrus.Logger,
	opts Options,
) *Handler {
	router := chi.NewRouter()

	compressor := middleware.NewCompressor(5, "application/json", "text/plain")
	compressor.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(compressor.Handler)
	router.Use(middleware.Timeout(requestTimeout))

	h := &Handler{
		router:  router,
		log:     log,
		auth:    auth,
		catalog: catalog,
		orders:  orders,
		storage: storage,
		metrics: opts.Metrics,
	}
	if opts.AuthRateLimit > 0 {
		h.authLimiter = NewRateLimiter(opts.AuthRateLimit, opts.AuthRateBurst, log)
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, r, apperr.NotFound("not found"))
	})
	h.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	h.router.Get("/", h.Index)
	h.router.Get("/health", h.HealthCheck)
	if h.metrics != nil {
		h.router.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	h.router.Group(func(r chi.Router) {
		if h.authLimiter != nil {
			r.Use(h.authLimiter.Handler)
		}
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
	})

	h.router.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Get("/me", h.Me)
		r.Put("/me", h.UpdateMe)
		r.Post("/change-password", h.ChangePassword)

		r.Get("/products", h.ListProducts)
		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Get("/marketplace", h.Marketplace)

		r.Get("/orders", h.ListOrders)
		r.Post("/orders", h.PlaceOrder)

		r.Get("/storage-units", h.ListStorageUnits)
		r.Post("/storage-units", h.CreateStorageUnit)
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type indexResponse struct {
	Message   string              `json:"message"`
	Version   string              `json:"version"`
	Endpoints map[string][]string `json:"endpoints"`
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, indexResponse{
		Message: apiName + " is running",
		Version: apiVersion,
		Endpoints: map[string][]string{
			"auth":         {"POST /signup", "POST /login", "GET /me", "PUT /me", "POST /change-password"},
			"products":     {"GET /products", "POST /products", "PUT /products/{id}", "GET /marketplace"},
			"orders":       {"GET /orders", "POST /orders"},
			"storageUnits": {"GET /storage-units", "POST /storage-units"},
		},
	})
}
