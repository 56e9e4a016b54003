package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/dtm"
	"github.com/aretw0/dtm/internal/logging"
	"github.com/aretw0/dtm/pkg/adapters/text"
	"github.com/aretw0/dtm/pkg/adapters/yamlprog"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/aretw0/dtm/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// DefaultTimeout bounds a single simulate or check call.
const DefaultTimeout = 5 * time.Second

// ProgramList is the result of list_programs.
type ProgramList struct {
	Programs []string `json:"programs" jsonschema_description:"Names of the stored programs"`
}

// ProgramDescription is the result of describe_program.
type ProgramDescription struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	States      int      `json:"states" jsonschema_description:"Number of states"`
	Tapes       int      `json:"tapes" jsonschema_description:"Number of work tapes besides the output tape"`
	Start       int      `json:"start"`
	Halting     []int    `json:"halting"`
	Accepting   []int    `json:"accepting"`
	Transitions []string `json:"transitions" jsonschema_description:"Sorted transition listing"`
}

// SimulateResult is the result of simulate.
type SimulateResult struct {
	Output string `json:"output" jsonschema_description:"Output tape with surrounding blanks trimmed"`
	Steps  int    `json:"steps"`
	Reason string `json:"reason" jsonschema_description:"Why the run stopped"`
}

// CheckResult is the result of check.
type CheckResult struct {
	Accepted bool   `json:"accepted"`
	Steps    int    `json:"steps"`
	Reason   string `json:"reason"`
}

type runArgs struct {
	Name string `mapstructure:"name"`
	Word string `mapstructure:"word"`
}

type loadArgs struct {
	Name   string `mapstructure:"name"`
	Source string `mapstructure:"source"`
	Format string `mapstructure:"format"`
}

// Server exposes a ProgramSource as an MCP server.
type Server struct {
	source    ports.ProgramSource
	alphabet  domain.Alphabet
	timeout   time.Duration
	hooks     func(program string) domain.LifecycleHooks
	logger    *slog.Logger
	mcpServer *server.MCPServer
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

// WithHooks sets a factory for per-program lifecycle hooks.
func WithHooks(fn func(program string) domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = fn
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

// NewServer creates a new MCP Server instance.
func NewServer(source ports.ProgramSource, opts ...Option) *Server {
	s := &Server{
		source:    source,
		alphabet:  domain.DefaultAlphabet,
		timeout:   DefaultTimeout,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("dtm-mcp", strings.TrimSpace(dtm.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on the given port using SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_programs",
		mcp.WithDescription("List the names of the stored Turing machine programs."),
		mcp.WithOutputSchema[ProgramList](),
	), mcp.NewStructuredToolHandler(s.handleListPrograms))

	s.mcpServer.AddTool(mcp.NewTool("describe_program",
		mcp.WithDescription("Show the header and the sorted transitions of a program."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Program name")),
		mcp.WithOutputSchema[ProgramDescription](),
	), mcp.NewStructuredToolHandler(s.handleDescribe))

	s.mcpServer.AddTool(mcp.NewTool("simulate",
		mcp.WithDescription("Run a program on a word and return the output tape."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Program name")),
		mcp.WithString("word", mcp.Description("Input word; empty runs on a blank tape")),
		mcp.WithOutputSchema[SimulateResult](),
	), mcp.NewStructuredToolHandler(s.handleSimulate))

	s.mcpServer.AddTool(mcp.NewTool("check",
		mcp.WithDescription("Decide whether a program accepts a word."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Program name")),
		mcp.WithString("word", mcp.Description("Input word")),
		mcp.WithOutputSchema[CheckResult](),
	), mcp.NewStructuredToolHandler(s.handleCheck))

	s.mcpServer.AddTool(mcp.NewTool("load_program",
		mcp.WithDescription("Store a program given in the text format (or YAML with format=yaml)."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Program name")),
		mcp.WithString("source", mcp.Required(), mcp.Description("Program source")),
		mcp.WithString("format", mcp.Description("text (default) or yaml"), mcp.Enum("text", "yaml")),
		mcp.WithOutputSchema[ProgramDescription](),
	), mcp.NewStructuredToolHandler(s.handleLoad))
}

func (s *Server) handleListPrograms(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ProgramList, error) {
	names, err := s.source.List(ctx)
	if err != nil {
		return ProgramList{}, fmt.Errorf("list failed: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return ProgramList{Programs: names}, nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ProgramDescription, error) {
	var in runArgs
	if err := decodeArgs(args, &in); err != nil {
		return ProgramDescription{}, err
	}
	eng, err := s.engine(ctx, in.Name)
	if err != nil {
		return ProgramDescription{}, err
	}
	return describe(in.Name, eng), nil
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SimulateResult, error) {
	var in runArgs
	if err := decodeArgs(args, &in); err != nil {
		return SimulateResult{}, err
	}
	ctx, cancel := s.runContext(ctx)
	defer cancel()

	eng, err := s.engine(ctx, in.Name)
	if err != nil {
		return SimulateResult{}, err
	}

	out, err := eng.Simulate(ctx, in.Word)
	if err != nil {
		s.logger.Warn("MCP simulate failed", "program", in.Name, "error", err)
		return SimulateResult{}, fmt.Errorf("simulate failed: %w", err)
	}
	stats := eng.LastRun()
	return SimulateResult{Output: out, Steps: stats.Steps, Reason: string(stats.Reason)}, nil
}

func (s *Server) handleCheck(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CheckResult, error) {
	var in runArgs
	if err := decodeArgs(args, &in); err != nil {
		return CheckResult{}, err
	}
	ctx, cancel := s.runContext(ctx)
	defer cancel()

	eng, err := s.engine(ctx, in.Name)
	if err != nil {
		return CheckResult{}, err
	}

	accepted, err := eng.Check(ctx, in.Word)
	if err != nil {
		s.logger.Warn("MCP check failed", "program", in.Name, "error", err)
		return CheckResult{}, fmt.Errorf("check failed: %w", err)
	}
	stats := eng.LastRun()
	return CheckResult{Accepted: accepted, Steps: stats.Steps, Reason: string(stats.Reason)}, nil
}

func (s *Server) handleLoad(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ProgramDescription, error) {
	store, ok := s.source.(ports.ProgramStore)
	if !ok {
		return ProgramDescription{}, errors.New("program source is read-only")
	}

	var in loadArgs
	if err := decodeArgs(args, &in); err != nil {
		return ProgramDescription{}, err
	}
	if in.Name == "" {
		return ProgramDescription{}, errors.New("name is required")
	}

	var (
		p   *domain.Program
		err error
	)
	switch in.Format {
	case "", "text":
		p, err = text.ParseString(in.Source, s.alphabet)
	case "yaml":
		p, err = yamlprog.Parse([]byte(in.Source), s.alphabet)
	default:
		return ProgramDescription{}, fmt.Errorf("unknown format %q", in.Format)
	}
	if err != nil {
		return ProgramDescription{}, fmt.Errorf("program rejected: %w", err)
	}

	if err := store.Save(ctx, in.Name, p); err != nil {
		return ProgramDescription{}, fmt.Errorf("save failed: %w", err)
	}
	s.logger.Info("program stored", "program", in.Name)

	eng, err := s.engine(ctx, in.Name)
	if err != nil {
		return ProgramDescription{}, err
	}
	return describe(in.Name, eng), nil
}

func (s *Server) engine(ctx context.Context, name string) (*dtm.Engine, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	p, err := s.source.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	opts := []dtm.Option{
		dtm.WithAlphabet(s.alphabet),
		dtm.WithLogger(s.logger),
	}
	if s.hooks != nil {
		opts = append(opts, dtm.WithLifecycleHooks(s.hooks(name)))
	}
	return dtm.New(p, opts...)
}

func (s *Server) runContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, s.timeout)
}

func describe(name string, eng *dtm.Engine) ProgramDescription {
	p := eng.Program()
	var lines []string
	if d := eng.Describe(); d != "" {
		lines = strings.Split(d, "\n")
	}
	return ProgramDescription{
		Name:        name,
		Description: p.Description,
		States:      p.States,
		Tapes:       p.Tapes,
		Start:       p.Start,
		Halting:     p.Halting,
		Accepting:   p.Accepting,
		Transitions: lines,
	}
}

func decodeArgs(args map[string]interface{}, out any) error {
	if err := mapstructure.Decode(args, out); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("dtm://programs", "Stored programs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		list, err := s.handleListPrograms(ctx, mcp.CallToolRequest{}, nil)
		if err != nil {
			return nil, err
		}
		jsonBytes, _ := json.Marshal(list)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "dtm://programs",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
