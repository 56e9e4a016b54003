package dtm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/dtm/internal/logging"
	"github.com/aretw0/dtm/internal/runtime"
	"github.com/aretw0/dtm/pkg/adapters/text"
	"github.com/aretw0/dtm/pkg/adapters/yamlprog"
	"github.com/aretw0/dtm/pkg/domain"
)

// RunStats summarizes the most recent run of an Engine.
type RunStats = runtime.Stats

// Engine is the high-level entry point for the dtm library.
// It wraps a runtime machine built from a validated Program. Runs are
// serialized, so an Engine is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	machine  *runtime.Machine
	program  *domain.Program
	alphabet domain.Alphabet
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	trusted  bool
	Name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithAlphabet sets the symbol alphabet (default 'a'..'z', blank '~').
func WithAlphabet(a domain.Alphabet) Option {
	return func(e *Engine) {
		e.alphabet = a
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTrustedProgram skips program validation in New. Running an invalid
// program is undefined behavior.
func WithTrustedProgram() Option {
	return func(e *Engine) {
		e.trusted = true
	}
}

func configure(opts []Option) *Engine {
	eng := &Engine{alphabet: domain.DefaultAlphabet}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	return eng
}

// New builds an Engine running p. Unless WithTrustedProgram is given, p is
// validated against the alphabet first.
func New(p *domain.Program, opts ...Option) (*Engine, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil program", domain.ErrMalformedProgram)
	}

	eng := configure(opts)
	if err := eng.alphabet.Valid(); err != nil {
		return nil, err
	}
	if !eng.trusted {
		if err := p.Validate(eng.alphabet); err != nil {
			return nil, fmt.Errorf("invalid program %q: %w", p.Name, err)
		}
	} else if err := p.CheckLimits(); err != nil {
		return nil, fmt.Errorf("invalid program %q: %w", p.Name, err)
	}

	eng.program = p
	eng.Name = p.Name
	if eng.Name != "" {
		eng.logger = eng.logger.With("program", eng.Name)
	}

	eng.machine = runtime.Load(p,
		runtime.WithAlphabet(eng.alphabet),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)
	return eng, nil
}

// Open reads a program file and builds an Engine for it. Files ending in
// .yaml or .yml are YAML documents, anything else uses the text format.
func Open(path string, opts ...Option) (*Engine, error) {
	cfg := configure(opts)
	p, err := ReadProgram(path, cfg.alphabet)
	if err != nil {
		return nil, err
	}
	return New(p, opts...)
}

// ReadProgram parses the program file at path. A program without a name
// directive is named after its file.
func ReadProgram(path string, alphabet domain.Alphabet) (*domain.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open program: %w", err)
	}
	defer f.Close()

	var p *domain.Program
	if IsYAML(path) {
		p, err = yamlprog.Decode(f, alphabet)
	} else {
		p, err = text.Parse(f, alphabet)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = ProgramName(path)
	}
	return p, nil
}

// IsYAML reports whether path names a YAML program file.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ProgramName derives a program name from a file path.
func ProgramName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Simulate runs the machine on word and returns the output tape content
// with surrounding blanks trimmed. The word must consist of alphabet range
// symbols. The run stops early with an error when ctx is done.
func (e *Engine) Simulate(ctx context.Context, word string) (string, error) {
	if err := e.alphabet.ValidWord(word); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.TransformContext(ctx, word)
}

// Check runs the machine on word and reports whether it halted in an
// accepting state.
func (e *Engine) Check(ctx context.Context, word string) (bool, error) {
	if err := e.alphabet.ValidWord(word); err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.DecideContext(ctx, word)
}

// Describe lists every transition, grouped by state and sorted within a state.
func (e *Engine) Describe() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Describe()
}

// LastRun returns statistics of the most recent run.
func (e *Engine) LastRun() RunStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.LastRun()
}

// Program returns the program the engine was built from.
func (e *Engine) Program() *domain.Program {
	return e.program
}

// Alphabet returns the engine's alphabet.
func (e *Engine) Alphabet() domain.Alphabet {
	return e.alphabet
}
