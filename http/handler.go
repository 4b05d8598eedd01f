package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sagarc03/roster"
)

// maxBodyBytes bounds a create request body.
const maxBodyBytes = 1 << 20

type Service interface {
	Create(ctx context.Context, in roster.CreateUser) (roster.User, error)
	Get(ctx context.Context, id int64) (roster.User, error)
	Delete(ctx context.Context, id int64) (roster.User, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig allows every origin, method and header, with credentials.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		Enabled:          true,
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}

type HandlerConfig struct {
	CORS CORSConfig
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Health enables GET /healthz when set.
	Health Pinger
	// HealthTimeout bounds the health ping. Defaults to 2s.
	HealthTimeout time.Duration
	// Observer, when set, receives per-request metrics.
	Observer RequestObserver
	// Metrics is mounted at GET /metrics when set.
	Metrics http.Handler
}

// Handler provides the HTTP API for user records.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	cfg := *config
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 2 * time.Second
	}

	return &Handler{
		config:  cfg,
		service: service,
	}
}

// Router returns an http.Handler with every route mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(AccessLog(h.config.Logger, h.config.Observer))
	r.Use(middleware.Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/", h.handleVersion)
		r.Post("/users", h.handleCreate)
		r.Get("/users/{id}", h.handleGet)
		r.Delete("/users/{id}", h.handleDelete)
	})

	if h.config.Health != nil {
		r.Get("/healthz", h.handleHealth)
	}

	if h.config.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.config.Metrics)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "not_found", "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	return r
}

func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	_ = WriteJSON(w, http.StatusOK, roster.VersionInfo{Version: roster.APIVersion})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in roster.CreateUser

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", "Request body too large")
			return
		}
		WriteError(w, http.StatusBadRequest, "invalid_json", "Request body must be a JSON object")
		return
	}

	u, err := h.service.Create(r.Context(), in)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	u, err := h.service.Delete(r.Context(), id)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.HealthTimeout)
	defer cancel()

	if err := h.config.Health.Ping(ctx); err != nil {
		h.config.Logger.WarnContext(r.Context(), "health check failed", "error", err)
		WriteError(w, http.StatusServiceUnavailable, "unavailable", "Database unavailable")
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseID reads the {id} route parameter. On failure it writes a 400 and
// returns false.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_id", "User id must be an integer")
		return 0, false
	}
	return id, true
}
