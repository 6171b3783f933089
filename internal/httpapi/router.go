package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheTTL = 5 * time.Minute

	generalRateLimit = 60
	analyzeRateLimit = 10
	rateWindow       = time.Minute
)

// Handlers holds the HTTP endpoint dependencies.
type Handlers struct {
	auth     AuthService
	analysis AnalysisService
	users    UserService
	cache    Cacher
	logger   *zap.Logger
	cacheTTL time.Duration
	sfGroup  singleflight.Group
}

type HandlerOption func(*Handlers)

// WithCache enables read-through caching for the stats endpoint.
func WithCache(c Cacher, ttl time.Duration) HandlerOption {
	return func(h *Handlers) {
		h.cache = c
		if ttl > 0 {
			h.cacheTTL = ttl
		}
	}
}

func NewHandlers(auth AuthService, analysis AnalysisService, users UserService, logger *zap.Logger, opts ...HandlerOption) *Handlers {
	if auth == nil || analysis == nil || users == nil {
		panic("nil service provided to NewHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handlers{
		auth:     auth,
		analysis: analysis,
		users:    users,
		logger:   logger.Named("http-handler"),
		cacheTTL: defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RouterConfig carries the cross-cutting middleware dependencies.
type RouterConfig struct {
	Tokens      TokenValidator
	RateCounter RateCounter
	CORSOrigins []string
	Logger      *zap.Logger
}

// NewRouter wires all endpoints under /api/v1 with auth, CORS and rate
// limiting middleware.
func NewRouter(h *Handlers, cfg RouterConfig) *mux.Router {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := mux.NewRouter()
	r.Use(CORS(cfg.CORSOrigins))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"service": "dance-analyzer"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(RateLimit(cfg.RateCounter, "general", generalRateLimit, rateWindow, logger))

	api.HandleFunc("/auth/register", h.register).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/auth/login", h.login).Methods(http.MethodPost, http.MethodOptions)

	protected := api.NewRoute().Subrouter()
	protected.Use(AuthMiddleware(cfg.Tokens, logger))

	protected.HandleFunc("/analysis/sessions", h.createSession).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/analysis/sessions", h.listSessions).Methods(http.MethodGet)
	protected.HandleFunc("/analysis/sessions/{id}", h.getSession).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/analysis/sessions/{id}/analyses", h.listAnalyses).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/analysis/sessions/{id}/practice", h.addPracticeTime).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/analysis/stats", h.stats).Methods(http.MethodGet, http.MethodOptions)

	analyzeRoute := protected.PathPrefix("/analysis/analyze").Subrouter()
	analyzeRoute.Use(RateLimit(cfg.RateCounter, "analyze", analyzeRateLimit, rateWindow, logger))
	analyzeRoute.HandleFunc("", h.analyze).Methods(http.MethodPost, http.MethodOptions)

	protected.HandleFunc("/users/profile", h.profile).Methods(http.MethodGet)
	protected.HandleFunc("/users/profile", h.updateProfile).Methods(http.MethodPut, http.MethodOptions)
	protected.HandleFunc("/users/password", h.changePassword).Methods(http.MethodPost, http.MethodOptions)

	return r
}
