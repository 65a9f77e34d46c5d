package http

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"ventas/internal/chart"
	applog "ventas/internal/log"
	"ventas/internal/middleware/ratelimit"
	"ventas/internal/middleware/security"
	"ventas/internal/middleware/trace"
	"ventas/internal/services"
	"ventas/internal/sheets"
	appweb "ventas/web"
)

const (
	DefaultMaxUploadBytes = 10 << 20
	ExportFilename        = "ventas_resumen.xlsx"
)

// Options configures the dashboard server.
type Options struct {
	Addr            string
	MaxUploadBytes  int64
	UploadRateLimit int
	Theme           string
	Logger          *applog.Logger
	// ReadyChecks run on /readyz; any error makes the server not ready.
	ReadyChecks map[string]func(context.Context) error
}

// Server serves the upload page, the dashboards and the JSON API.
type Server struct {
	http.Server
	templates     *template.Template
	svc           *services.ReportService
	defaultSource sheets.TableReader
	renderer      chart.Renderer
	maxUpload     int64
	readyChecks   map[string]func(context.Context) error

	logger   *applog.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates. defaultSource may be
// nil, in which case /dashboard and GET /api/report answer 404.
func NewServer(opts Options, svc *services.ReportService, defaultSource sheets.TableReader) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	detector := security.NewDetector()
	s := &Server{
		svc:           svc,
		defaultSource: defaultSource,
		renderer:      chart.Renderer{Theme: opts.Theme},
		maxUpload:     opts.MaxUploadBytes,
		readyChecks:   opts.ReadyChecks,
		logger:        logger,
		limiter:       ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.UploadRateLimit}),
		detector:      detector,
		tracer:        trace.NewMiddleware(logger, detector.ExtractClientIP),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err.Error())
	}
	s.templates = t

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err.Error())
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("POST /upload", security.NoStore(http.HandlerFunc(s.handleUpload)))
	mux.Handle("GET /dashboard", security.NoStore(http.HandlerFunc(s.handleDashboard)))
	mux.Handle("POST /export", security.NoStore(http.HandlerFunc(s.handleExport)))
	mux.Handle("POST /api/report", security.NoStore(http.HandlerFunc(s.handleAPIReportUpload)))
	mux.Handle("GET /api/report", security.NoStore(http.HandlerFunc(s.handleAPIReportDefault)))
	mux.HandleFunc("GET /api/loads", s.handleLoads)

	onLimit := func(w http.ResponseWriter, r *http.Request) {
		logger.WarnContext(r.Context(), "Rate limit exceeded",
			applog.FieldClientIP, detector.ExtractClientIP(r),
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path)
		http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
	}

	var handler http.Handler = mux
	handler = s.limiter.Middleware(detector.ExtractClientIP, onLimit, http.MethodPost)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = detector.Middleware(logger)(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Close releases the background resources of a server that was never started.
func (s *Server) Close() error {
	s.limiter.Stop()
	return s.Server.Close()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var errs []error
	for name, check := range s.readyChecks {
		if err := check(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", "check", name, applog.FieldError, err.Error())
			errs = append(errs, errors.New(name))
		}
	}
	if len(errs) > 0 {
		http.Error(w, "not ready: "+errors.Join(errs...).Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
