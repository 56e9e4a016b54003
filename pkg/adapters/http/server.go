package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/dtm"
	"github.com/aretw0/dtm/internal/logging"
	"github.com/aretw0/dtm/pkg/adapters/text"
	"github.com/aretw0/dtm/pkg/adapters/yamlprog"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/aretw0/dtm/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultTimeout bounds a single simulate or check request.
const DefaultTimeout = 5 * time.Second

const (
	// maxProgramSize caps PUT bodies.
	maxProgramSize = 1 << 20
	// maxRunRequestSize caps simulate and check bodies.
	maxRunRequestSize = 1 << 20
)

// Server serves programs from a ProgramSource. PUT and DELETE are only
// available when the source is also a ports.ProgramStore.
type Server struct {
	Source   ports.ProgramSource
	alphabet domain.Alphabet
	timeout  time.Duration
	hooks    func(program string) domain.LifecycleHooks
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAlphabet sets the alphabet programs and words are checked against.
func WithAlphabet(a domain.Alphabet) Option {
	return func(s *Server) {
		s.alphabet = a
	}
}

// WithTimeout bounds each run. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// WithHooks sets a factory for per-program lifecycle hooks, e.g.
// observability.Metrics.Hooks.
func WithHooks(fn func(program string) domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = fn
	}
}

// WithGatherer exposes g on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a server over source.
func NewServer(source ports.ProgramSource, opts ...Option) *Server {
	s := &Server{
		Source:   source,
		alphabet: domain.DefaultAlphabet,
		timeout:  DefaultTimeout,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates the HTTP handler for source.
func NewHandler(source ports.ProgramSource, opts ...Option) http.Handler {
	return NewServer(source, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/programs", func(r chi.Router) {
		r.Get("/", s.ListPrograms)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.DescribeProgram)
			r.Put("/", s.PutProgram)
			r.Delete("/", s.DeleteProgram)
			r.Get("/source", s.GetProgramSource)
			r.Post("/simulate", s.Simulate)
			r.Post("/check", s.Check)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>dtm API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// RunRequest is the body of simulate and check requests.
type RunRequest struct {
	Word string `json:"word"`
}

// SimulateResponse carries the trimmed output tape.
type SimulateResponse struct {
	Output string `json:"output"`
	Steps  int    `json:"steps"`
	Reason string `json:"reason,omitempty"`
}

// CheckResponse carries the verdict.
type CheckResponse struct {
	Accepted bool   `json:"accepted"`
	Steps    int    `json:"steps"`
	Reason   string `json:"reason,omitempty"`
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	} else if err != nil {
		s.logger.Error("OpenAPI document rejected", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "dtm-http",
		"version":     strings.TrimSpace(dtm.Version),
		"api_version": apiVersion,
	})
}

// ListPrograms handles GET /programs.
func (s *Server) ListPrograms(w http.ResponseWriter, r *http.Request) {
	names, err := s.Source.List(r.Context())
	if err != nil {
		s.fail(w, "ListPrograms", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"programs": names})
}

// DescribeProgram handles GET /programs/{name}.
func (s *Server) DescribeProgram(w http.ResponseWriter, r *http.Request) {
	eng, ok := s.engine(r.Context(), w, r, "DescribeProgram")
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, eng.Describe()+"\n")
}

// GetProgramSource handles GET /programs/{name}/source.
func (s *Server) GetProgramSource(w http.ResponseWriter, r *http.Request) {
	p, err := s.Source.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "GetProgramSource", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := text.Format(w, p); err != nil {
		s.logger.Error("GetProgramSource write failed", "error", err)
	}
}

// PutProgram handles PUT /programs/{name}. YAML bodies are selected by a
// YAML content type, anything else is parsed as the text format.
func (s *Server) PutProgram(w http.ResponseWriter, r *http.Request) {
	store, ok := s.Source.(ports.ProgramStore)
	if !ok {
		writeError(w, http.StatusMethodNotAllowed, "program source is read-only")
		return
	}

	name := chi.URLParam(r, "name")
	if !ValidName(name) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid program name %q", name))
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxProgramSize)
	var (
		p   *domain.Program
		err error
	)
	if isYAML(r.Header.Get("Content-Type")) {
		p, err = yamlprog.Decode(body, s.alphabet)
	} else {
		p, err = text.Parse(body, s.alphabet)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		s.logger.Warn("PutProgram: program rejected", "program", name, "error", err)
		return
	}

	if err := store.Save(r.Context(), name, p); err != nil {
		s.fail(w, "PutProgram", err)
		return
	}
	s.logger.Info("program stored", "program", name, "states", p.States, "tapes", p.Tapes)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteProgram handles DELETE /programs/{name}.
func (s *Server) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	store, ok := s.Source.(ports.ProgramStore)
	if !ok {
		writeError(w, http.StatusMethodNotAllowed, "program source is read-only")
		return
	}
	if err := store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.fail(w, "DeleteProgram", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Simulate handles POST /programs/{name}/simulate.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeRun(w, r, "Simulate")
	if !ok {
		return
	}

	ctx, cancel := s.runContext(r.Context())
	defer cancel()

	eng, ok := s.engine(ctx, w, r, "Simulate")
	if !ok {
		return
	}
	out, err := eng.Simulate(ctx, body.Word)
	if err != nil {
		s.fail(w, "Simulate", err)
		return
	}
	stats := eng.LastRun()
	writeJSON(w, http.StatusOK, SimulateResponse{Output: out, Steps: stats.Steps, Reason: string(stats.Reason)})
}

// Check handles POST /programs/{name}/check.
func (s *Server) Check(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeRun(w, r, "Check")
	if !ok {
		return
	}

	ctx, cancel := s.runContext(r.Context())
	defer cancel()

	eng, ok := s.engine(ctx, w, r, "Check")
	if !ok {
		return
	}
	accepted, err := eng.Check(ctx, body.Word)
	if err != nil {
		s.fail(w, "Check", err)
		return
	}
	stats := eng.LastRun()
	writeJSON(w, http.StatusOK, CheckResponse{Accepted: accepted, Steps: stats.Steps, Reason: string(stats.Reason)})
}

// decodeRun reads a size-limited RunRequest body.
func (s *Server) decodeRun(w http.ResponseWriter, r *http.Request, op string) (RunRequest, bool) {
	var body RunRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRunRequestSize)).Decode(&body)
	if err == nil {
		return body, true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	} else {
		writeError(w, http.StatusBadRequest, "invalid request body")
	}
	s.logger.Warn(op+": Invalid request body", "error", err)
	return RunRequest{}, false
}

// engine builds a fresh Engine for the named program; machines are not
// shared between requests. Loading counts against the run timeout in ctx.
func (s *Server) engine(ctx context.Context, w http.ResponseWriter, r *http.Request, op string) (*dtm.Engine, bool) {
	name := chi.URLParam(r, "name")
	p, err := s.Source.Load(ctx, name)
	if err != nil {
		s.fail(w, op, err)
		return nil, false
	}

	opts := []dtm.Option{
		dtm.WithAlphabet(s.alphabet),
		dtm.WithLogger(s.logger),
	}
	if s.hooks != nil {
		opts = append(opts, dtm.WithLifecycleHooks(s.hooks(name)))
	}
	eng, err := dtm.New(p, opts...)
	if err != nil {
		s.fail(w, op, err)
		return nil, false
	}
	return eng, true
}

func (s *Server) runContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, s.timeout)
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrProgramNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidWord),
		errors.Is(err, domain.ErrMalformedProgram),
		errors.Is(err, domain.ErrInvalidSymbol):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Debug(op+" rejected", "status", status, "error", err)
	}
	writeError(w, status, err.Error())
}

// ValidName reports whether name is usable as a program name: letters,
// digits, '-' and '_'.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func isYAML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
