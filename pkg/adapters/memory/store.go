package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/dtm/pkg/domain"
)

// Store implements ports.ProgramStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Program
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Program),
	}
}

// NewFromPrograms creates a store seeded with programs, keyed by their names.
// This improves DX for tests and embedded use.
func NewFromPrograms(programs ...*domain.Program) (*Store, error) {
	s := NewStore()
	for _, p := range programs {
		if p.Name == "" {
			return nil, fmt.Errorf("program missing name")
		}
		s.data[p.Name] = p.Clone()
	}
	return s, nil
}

// Save stores a copy of p under name.
func (s *Store) Save(ctx context.Context, name string, p *domain.Program) error {
	c := p.Clone()
	c.Name = name

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = c
	return nil
}

// Load returns a copy of the program so callers can't mutate the store.
func (s *Store) Load(ctx context.Context, name string) (*domain.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProgramNotFound, name)
	}
	return p.Clone(), nil
}

// Delete removes the program.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names in order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
