package ports

import (
	"context"

	"github.com/aretw0/dtm/pkg/domain"
)

// ProgramSource provides read access to named programs.
type ProgramSource interface {
	// Load retrieves the program stored under name.
	// Returns domain.ErrProgramNotFound if there is none.
	Load(ctx context.Context, name string) (*domain.Program, error)

	// List returns the names of all programs, sorted.
	List(ctx context.Context) ([]string, error)
}

// ProgramStore persists programs by name.
type ProgramStore interface {
	ProgramSource

	// Save stores p under name, replacing any previous program.
	Save(ctx context.Context, name string, p *domain.Program) error

	// Delete removes the program. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error
}
