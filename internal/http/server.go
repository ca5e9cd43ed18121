// Package http serves the JSON API under /api, the health probes, the
// dashboard charts and, when configured, the built web client.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"nobudget/internal/charts"
	"nobudget/internal/crud"
	"nobudget/internal/log"
	"nobudget/internal/middleware/ratelimit"
	"nobudget/internal/middleware/security"
	"nobudget/internal/middleware/trace"
)

// Version is reported by /api/health.
const Version = "1.0.0"

// Options configures NewServer. Zero values are usable.
type Options struct {
	// StaticDir holds a built client; empty disables static serving.
	StaticDir string
	// RateLimitPerMinute caps mutating requests per client address.
	RateLimitPerMinute int
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string
	// Ready reports backend readiness for /readyz. Nil means always ready.
	Ready  func(ctx context.Context) error
	Logger *log.Logger
}

type Server struct {
	http.Server
	services     crud.Services
	opts         Options
	logger       *log.Logger
	limiter      *ratelimit.Limiter
	detector     *security.Detector
	charts       *charts.Renderer
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware and returns a server ready to
// ListenAndServe on addr.
func NewServer(addr string, services crud.Services, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		services: services,
		opts:     opts,
		logger:   logger.WithComponent(log.ComponentHTTP),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(),
		charts:   charts.NewRenderer(32, 10*time.Minute),
	}

	mux := http.NewServeMux()
	mountResource(mux, "/api/expenses", services.Expenses)
	mountResource(mux, "/api/income", services.Income)
	mountResource(mux, "/api/categories", services.Categories)
	mountResource(mux, "/api/income-categories", services.IncomeCategories)

	mux.HandleFunc("GET /api/health", handleAPIHealth)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/charts/categories.png", s.handleCategoryChart)
	mux.HandleFunc("GET /api/charts/daily.png", s.handleDailyChart)
	mux.HandleFunc("/api/", handleAPINotFound)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	if h := staticHandler(opts.StaticDir); h != nil {
		// Method-less so it does not conflict with the /api/ catch-all.
		mux.Handle("/", h)
		s.logger.Info("Serving web client", "dir", opts.StaticDir)
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.chain(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// chain wraps h, outermost first: tracing, request logger, scan detection,
// security headers, CORS, then rate limiting of mutations.
func (s *Server) chain(h http.Handler) http.Handler {
	h = s.limiter.Middleware(s.detector.ExtractClientIP, ratelimit.MutationsOnly, s.onRateLimit)(h)
	h = security.CORS(s.opts.AllowedOrigins)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.detector.Middleware(h)
	h = log.Middleware(s.logger, trace.FromRequest)(h)
	return trace.NewMiddleware(s.logger, s.detector.ExtractClientIP).Middleware(h)
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded", log.FieldClientIP, s.detector.ExtractClientIP(r), log.FieldPath, r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "Rate limit exceeded. Please try again later."})
}

// Shutdown stops background work and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
