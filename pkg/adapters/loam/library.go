// Package loam reads programs from a directory of Markdown documents using
// the Loam document store.
//
// Each document holds the program header in its front matter and one
// transition per line in its body:
//
//	---
//	description: accepts a^n b^n
//	states: 3
//	tapes: 1
//	start: 0
//	halting: [2]
//	accepting: [2]
//	---
//	0 a ~ ~ 0 +1 ~ 0 a +1
//	...
//
// Body lines that are empty, start with '#' or open a code fence are
// ignored, so the transitions may be wrapped in a fenced block.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/dtm/pkg/adapters/text"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/aretw0/dtm/pkg/ports"
	"github.com/aretw0/loam"
)

var (
	_ ports.ProgramSource = (*Library)(nil)
	_ ports.Watchable     = (*Library)(nil)
)

// Library adapts a Loam repository to the ports.ProgramSource interface.
// The program name is the document id without its extension.
type Library struct {
	Repo     *loam.TypedRepository[ProgramMetadata]
	alphabet domain.Alphabet
}

type Option func(*Library)

// WithAlphabet sets the alphabet documents are validated against.
func WithAlphabet(a domain.Alphabet) Option {
	return func(l *Library) {
		l.alphabet = a
	}
}

// New creates a library over a typed Loam repository.
func New(repo *loam.TypedRepository[ProgramMetadata], opts ...Option) *Library {
	l := &Library{
		Repo:     repo,
		alphabet: domain.DefaultAlphabet,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open initializes a read-only Loam repository at path.
func Open(path string, opts ...Option) (*Library, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// The library never writes, so keep Loam away from its dev sandbox.
	repo, err := loam.Init(absPath, loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ProgramMetadata](repo), opts...), nil
}

// Load reads and validates the named program. Any lookup failure is
// reported as domain.ErrProgramNotFound.
func (l *Library) Load(ctx context.Context, name string) (*domain.Program, error) {
	doc, err := l.Repo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrProgramNotFound, name, err)
	}

	p, err := l.decode(doc.Data, doc.Content)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", name, err)
	}
	p.Name = trimExtension(doc.ID)
	return p, nil
}

func (l *Library) decode(meta ProgramMetadata, body string) (*domain.Program, error) {
	p := &domain.Program{
		Description: meta.Description,
		States:      meta.States,
		Tapes:       meta.Tapes,
		Start:       meta.Start,
		Halting:     meta.Halting,
		Accepting:   meta.Accepting,
	}
	if p.States <= 0 || p.Tapes < 0 {
		return nil, fmt.Errorf("%w: header needs states > 0 and tapes >= 0", domain.ErrMalformedProgram)
	}
	if err := p.CheckLimits(); err != nil {
		return nil, err
	}

	// With fenced blocks present, prose outside of them is documentation.
	fenced := strings.Contains(body, "```")
	inFence := false
	for i, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || (fenced && !inFence) {
			continue
		}
		t, err := text.ParseTransition(trimmed, p.States, p.Tapes, l.alphabet)
		if err != nil {
			return nil, &text.ParseError{Line: i + 1, Err: err}
		}
		p.Transitions = append(p.Transitions, t)
	}

	if err := p.Validate(l.alphabet); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns the program names in the repository, sorted.
func (l *Library) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		name := trimExtension(doc.ID)
		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: program '%s' is defined in both '%s' and '%s'", name, existing, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Save writes p as a Markdown document. The repository must be writable.
func (l *Library) Save(ctx context.Context, name string, p *domain.Program) error {
	lines := make([]string, len(p.Transitions))
	for i, t := range p.Transitions {
		lines[i] = text.FormatTransition(t)
	}

	err := l.Repo.Save(ctx, &loam.DocumentModel[ProgramMetadata]{
		ID:      name,
		Content: strings.Join(lines, "\n"),
		Data: ProgramMetadata{
			Description: p.Description,
			States:      p.States,
			Tapes:       p.Tapes,
			Start:       p.Start,
			Halting:     p.Halting,
			Accepting:   p.Accepting,
		},
	})
	if err != nil {
		return fmt.Errorf("loam save failed for %s: %w", name, err)
	}
	return nil
}

// Watch reports the names of programs whose documents change.
func (l *Library) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
