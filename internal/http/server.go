package http

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/log"
	"fintrack/internal/metrics"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

const (
	apiPrefix = "/api/v1"

	DefaultMaxUploadBytes = 5 << 20
	uploadCacheSeconds    = 86400
)

// Services groups the application services the handlers call.
type Services struct {
	Auth      *services.AuthService
	Incomes   *services.IncomeService
	Expenses  *services.ExpenseService
	Goals     *services.GoalService
	Dashboard *services.DashboardService
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the listener and the cross-cutting middleware.
type Options struct {
	Addr           string
	ClientURL      string
	UploadDir      string
	MaxUploadBytes int64
	RateLimit      ratelimit.Config
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TrustedProxies []string
}

type Server struct {
	http.Server
	svc         Services
	verifier    auth.Verifier
	ready       Pinger
	logger      *log.Logger
	uploadDir   string
	maxUpload   int64
	rateLimiter *ratelimit.Limiter
	detector    *security.Detector

	shutdownOnce sync.Once
}

// NewServer builds the API server. The upload directory is created if it
// does not exist.
func NewServer(opts Options, svc Services, verifier auth.Verifier, ready Pinger, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.UploadDir == "" {
		opts.UploadDir = "uploads"
	}
	if err := os.MkdirAll(opts.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if opts.RateLimit.RequestsPerSecond <= 0 {
		opts.RateLimit = ratelimit.DefaultConfig()
	}

	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(strings.TrimSpace(cidr)); err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
	}

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      opts.WriteTimeout,
			IdleTimeout:       opts.IdleTimeout,
		},
		svc:         svc,
		verifier:    verifier,
		ready:       ready,
		logger:      logger.WithComponent(log.ComponentHTTP),
		uploadDir:   opts.UploadDir,
		maxUpload:   opts.MaxUploadBytes,
		rateLimiter: ratelimit.NewLimiter(opts.RateLimit),
		detector:    detector,
	}

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	cors := security.NewCORS(opts.ClientURL)
	tracer := trace.NewMiddleware(s.logger, detector.ExtractClientIP)

	s.Handler = chain(s.routes(),
		metrics.InstrumentHandler,
		tracer.Middleware,
		log.Middleware(s.logger),
		log.RequestIDMiddleware(trace.RequestID),
		detector.Middleware,
		headers.Middleware,
		cors.Middleware,
		s.rateLimiter.Middleware(detector.ExtractClientIP, s.writeRateLimited),
	)
	return s, nil
}

// chain wraps h so that the first middleware is the outermost.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	protect := auth.Middleware(s.verifier, s.writeAuthError)
	private := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, protect(h))
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", metrics.Handler())

	uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadDir)))
	mux.Handle("GET /uploads/", security.StaticAssetMiddleware(uploadCacheSeconds)(noDirListing(uploads)))

	mux.HandleFunc("POST "+apiPrefix+"/auth/register", s.handleRegister)
	mux.HandleFunc("POST "+apiPrefix+"/auth/login", s.handleLogin)
	mux.HandleFunc("POST "+apiPrefix+"/auth/upload-image", s.handleUploadImage)
	private("GET "+apiPrefix+"/auth/getUser", s.handleGetUser)

	private("POST "+apiPrefix+"/income/add", s.handleAddIncome)
	private("GET "+apiPrefix+"/income/get", s.handleListIncomes)
	private("DELETE "+apiPrefix+"/income/delete/{id}", s.handleDeleteIncome)
	private("GET "+apiPrefix+"/income/downloadExcel", s.handleIncomeExcel)
	private("GET "+apiPrefix+"/income/downloadPdf", s.handleIncomePDF)

	private("POST "+apiPrefix+"/expense/add", s.handleAddExpense)
	private("GET "+apiPrefix+"/expense/get", s.handleListExpenses)
	private("DELETE "+apiPrefix+"/expense/delete/{id}", s.handleDeleteExpense)
	private("GET "+apiPrefix+"/expense/downloadExcel", s.handleExpenseExcel)
	private("GET "+apiPrefix+"/expense/downloadPdf", s.handleExpensePDF)

	private("POST "+apiPrefix+"/goal/create", s.handleCreateGoal)
	private("GET "+apiPrefix+"/goal/get", s.handleListGoals)
	private("PUT "+apiPrefix+"/goal/update/{id}", s.handleUpdateGoal)
	private("DELETE "+apiPrefix+"/goal/delete/{id}", s.handleDeleteGoal)
	private("GET "+apiPrefix+"/goal/progress", s.handleGoalProgress)

	private("GET "+apiPrefix+"/dashboard", s.handleDashboard)

	return mux
}

// Shutdown stops background goroutines and drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready.Ping(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			ErrorResponse(http.StatusServiceUnavailable, "Store unavailable", "").Write(w)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// noDirListing hides directory indexes under /uploads/.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
